package domain

// Category is a top-level menu section.
type Category struct {
	ID   string `json:"id"`   // Matches Product.Category
	Name string `json:"name"` // Display name
}

// Categories is the envelope of categories.json. SubFilters maps a category id
// to the product tags offered as secondary filters on the menu page.
type Categories struct {
	Categories []Category          `json:"categories"`
	SubFilters map[string][]string `json:"subFilters"`
}

// Filter narrows the menu listing.
type Filter struct {
	Category string // Category id, empty for all
	Tag      string // Sub-filter tag within the category
	Query    string // Search over name and keywords
}

func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.Tag == "" && f.Query == ""
}
