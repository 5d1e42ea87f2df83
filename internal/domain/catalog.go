package domain

// Settings are the site-wide branding and contact details.
type Settings struct {
	SiteName      string   `json:"siteName"`
	Logo          string   `json:"logo"`
	Phone         string   `json:"phone"`
	WhatsApp      string   `json:"whatsapp"`
	Address       string   `json:"address"`
	FooterTagline string   `json:"footerTagline"`
	Facebook      string   `json:"facebook"`
	Instagram     string   `json:"instagram"`
	MapEmbed      string   `json:"mapEmbed"`
	Banners       []string `json:"banners"`
}

// ProductList is the envelope of products.json.
type ProductList struct {
	Products []Product `json:"products"`
}

// Catalog is everything fetched once at startup.
type Catalog struct {
	Settings   Settings   `json:"settings"`
	Categories Categories `json:"categories"`
	Products   []Product  `json:"products"`
}
