package view

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/catalog"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/notify"
	"restaurant/ordering/internal/order"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// State is the session state the pages project.
type State interface {
	CartCount() int
	FavoriteCount() int
	IsFavorite(id domain.ProductID) bool
	CartLines() []cart.ResolvedLine
	CartTotal() decimal.Decimal
	FavoriteProducts() []domain.Product
}

// Renderer builds the site pages from the loaded catalog and session state.
type Renderer struct {
	settings   domain.Settings
	categories domain.Categories
	index      *catalog.Index
	money      order.Money
	now        func() time.Time
}

func NewRenderer(settings domain.Settings, categories domain.Categories, index *catalog.Index, money order.Money) *Renderer {
	return &Renderer{
		settings:   settings,
		categories: categories,
		index:      index,
		money:      money,
		now:        time.Now,
	}
}

func (r *Renderer) Money() order.Money {
	return r.money
}

// page builds the shared layout: branding, badges, active nav entry and toasts.
func (r *Renderer) page(title, active string, st State, toasts []notify.Notification) *goquery.Document {
	doc := newDocument(layoutHTML)
	s := r.settings

	if s.SiteName != "" {
		doc.Find("title").SetText(title + " · " + s.SiteName)
	} else {
		doc.Find("title").SetText(title)
	}
	doc.Find("#siteName, #footerName, #copyName").SetText(s.SiteName)
	doc.Find("#yearNow").SetText(strconv.Itoa(r.now().Year()))
	doc.Find("#footerTag").SetText(s.FooterTagline)
	doc.Find("#footerAddress").SetText(s.Address)
	doc.Find("#footerPhone").SetAttr("href", "tel:"+s.Phone)
	doc.Find("#footerWhats").SetAttr("href", "https://wa.me/"+s.WhatsApp)

	logo := s.Logo
	if logo == "" {
		logo = DefaultLogo
	}
	doc.Find("#logoImg, #footerLogo").SetAttr("src", logo)

	doc.Find(fmt.Sprintf(`#nav a[data-page="%s"]`, active)).AddClass("active")

	if st != nil {
		doc.Find("#cartCount").SetText(strconv.Itoa(st.CartCount()))
		doc.Find("#favCount").SetText(strconv.Itoa(st.FavoriteCount()))
	}
	setToasts(doc, toasts)
	return doc
}

// productCard renders a menu card with its add-to-cart and favorite controls.
func (r *Renderer) productCard(p domain.Product, st State, back string) *goquery.Selection {
	card := fragment(`<div class="card">
  <a class="card-link"><img class="card-img" loading="lazy"><h3 class="title"></h3></a>
  <p class="desc"></p>
  <div class="price"></div>
  <div class="actions"></div>
  <form method="post" action="/favorites/toggle" class="fav-form">
    <input type="hidden" name="id"><input type="hidden" name="back">
    <button type="submit" class="fav"></button>
  </form>
</div>`)

	id := p.ID.String()
	card.SetAttr("data-id", id)
	card.Find(".card-link").SetAttr("href", "/product/"+id)
	card.Find(".card-img").SetAttr("src", p.Image).SetAttr("alt", p.Name)
	card.Find(".title").SetText(p.Name)
	card.Find(".desc").SetText(p.Description)
	card.Find(".price").SetText(r.priceText(p))
	card.Find(`.fav-form input[name="id"]`).SetAttr("value", id)
	card.Find(`.fav-form input[name="back"]`).SetAttr("value", back)
	r.setFavButton(card.Find(".fav"), st != nil && st.IsFavorite(p.ID))

	card.Find(".actions").AppendSelection(r.addControl(p, back))
	return card
}

// addControl adds sizeless products directly; size-option products link to
// their page so the customer picks a size first.
func (r *Renderer) addControl(p domain.Product, back string) *goquery.Selection {
	if p.HasSizeOptions() {
		link := fragment(`<a class="btn choose">Choose size</a>`)
		link.SetAttr("href", "/product/"+p.ID.String())
		return link
	}

	form := fragment(`<form method="post" action="/cart/add" class="add-form">
  <input type="hidden" name="id"><input type="hidden" name="qty" value="1"><input type="hidden" name="back">
  <button type="submit" class="btn add">Add to cart</button>
</form>`)
	form.Find(`input[name="id"]`).SetAttr("value", p.ID.String())
	form.Find(`input[name="back"]`).SetAttr("value", back)
	return form
}

func (r *Renderer) setFavButton(btn *goquery.Selection, favorite bool) {
	if favorite {
		btn.AddClass("on").SetText("♥ Remove from favorites")
		return
	}
	btn.SetText("♡ Add to favorites")
}

func (r *Renderer) priceText(p domain.Product) string {
	if p.HasSizeOptions() {
		return "From " + r.money.Format(p.UnitPrice(p.DefaultSize()))
	}
	return r.money.Format(p.UnitPrice(domain.SizeNone))
}

func menuURL(f domain.Filter) string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("cat", f.Category)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if len(q) == 0 {
		return "/menu"
	}
	return "/menu?" + q.Encode()
}
