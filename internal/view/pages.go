package view

import (
	"strconv"

	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/notify"

	"github.com/PuerkitoBio/goquery"
)

func (r *Renderer) Home(st State, toasts []notify.Notification) *goquery.Document {
	doc := r.page("Home", "home", st, toasts)
	main := doc.Find("#main")

	if len(r.settings.Banners) > 0 {
		slider := fragment(`<section id="bannerSlider"></section>`)
		for _, b := range r.settings.Banners {
			slide := fragment(`<img class="banner" alt="">`)
			slide.SetAttr("src", b)
			slider.AppendSelection(slide)
		}
		main.AppendSelection(slider)
	}

	section := fragment(`<section><h2>Featured</h2><div id="featuredRow" class="grid"></div></section>`)
	row := section.Find("#featuredRow")
	for _, p := range r.index.Featured() {
		row.AppendSelection(r.productCard(p, st, "/"))
	}
	main.AppendSelection(section)
	return doc
}

// Menu lists the catalog narrowed by f, with category and sub-filter links.
func (r *Renderer) Menu(st State, f domain.Filter, toasts []notify.Notification) *goquery.Document {
	doc := r.page("Menu", "menu", st, toasts)
	back := menuURL(f)

	section := fragment(`<section>
  <form id="search" method="get" action="/menu">
    <input type="hidden" name="cat"><input type="hidden" name="tag">
    <input type="search" name="q" placeholder="Search the menu">
  </form>
  <div id="filters"></div>
  <div id="subFilters"></div>
  <div id="menuProds" class="grid"></div>
</section>`)
	section.Find(`#search input[name="cat"]`).SetAttr("value", f.Category)
	section.Find(`#search input[name="tag"]`).SetAttr("value", f.Tag)
	section.Find(`#search input[name="q"]`).SetAttr("value", f.Query)

	filters := section.Find("#filters")
	all := fragment(`<a class="filter">All</a>`)
	all.SetAttr("href", menuURL(domain.Filter{Query: f.Query}))
	if f.Category == "" {
		all.AddClass("active")
	}
	filters.AppendSelection(all)

	for _, c := range r.categories.Categories {
		link := fragment(`<a class="filter"></a>`)
		link.SetText(c.Name).
			SetAttr("data-cat", c.ID).
			SetAttr("href", menuURL(domain.Filter{Category: c.ID, Query: f.Query}))
		if c.ID == f.Category {
			link.AddClass("active")
		}
		filters.AppendSelection(link)
	}

	if f.Category != "" {
		subs := section.Find("#subFilters")
		for _, tag := range r.categories.SubFilters[f.Category] {
			link := fragment(`<a class="subfilter"></a>`)
			link.SetText(tag).
				SetAttr("data-tag", tag).
				SetAttr("href", menuURL(domain.Filter{Category: f.Category, Tag: tag, Query: f.Query}))
			if tag == f.Tag {
				link.AddClass("active")
			}
			subs.AppendSelection(link)
		}
		if f.Tag != "" {
			clearLink := fragment(`<a class="subfilter clear">Clear filter</a>`)
			clearLink.SetAttr("href", menuURL(domain.Filter{Category: f.Category, Query: f.Query}))
			subs.AppendSelection(clearLink)
		}
	}

	grid := section.Find("#menuProds")
	products := r.index.Filter(f)
	for _, p := range products {
		grid.AppendSelection(r.productCard(p, st, back))
	}
	if len(products) == 0 {
		grid.AppendSelection(fragment(`<p class="empty">No products match your search.</p>`))
	}

	doc.Find("#main").AppendSelection(section)
	return doc
}

// Product renders the detail page. Only priced sizes are offered; size picks
// the selected one and falls back to the smallest.
func (r *Renderer) Product(st State, p domain.Product, size domain.Size, toasts []notify.Notification) *goquery.Document {
	doc := r.page(p.Name, "menu", st, toasts)
	id := p.ID.String()
	back := "/product/" + id

	section := fragment(`<section id="product">
  <img class="hero">
  <h1 class="title"></h1>
  <p class="desc"></p>
  <div id="sizes"></div>
  <div id="price"></div>
  <form id="addForm" method="post" action="/cart/add">
    <input type="hidden" name="id"><input type="hidden" name="size"><input type="hidden" name="back">
    <input type="number" name="qty" value="1" min="1">
    <button type="submit" class="btn add">Add to cart</button>
  </form>
  <form method="post" action="/favorites/toggle" class="fav-form">
    <input type="hidden" name="id"><input type="hidden" name="back">
    <button type="submit" class="fav"></button>
  </form>
</section>`)
	section.SetAttr("data-id", id)
	section.Find(".hero").SetAttr("src", p.Image).SetAttr("alt", p.Name)
	section.Find(".title").SetText(p.Name)
	section.Find(".desc").SetText(p.Description)

	selected := domain.SizeNone
	if p.HasSizeOptions() {
		selected = p.DefaultSize()
		if p.OffersSize(size) {
			selected = size
		}
		sizes := section.Find("#sizes")
		for _, s := range p.AvailableSizes() {
			link := fragment(`<a class="size"></a>`)
			link.SetText(s.Label()).
				SetAttr("data-size", s.String()).
				SetAttr("href", back+"?size="+s.String())
			if s == selected {
				link.AddClass("active")
			}
			sizes.AppendSelection(link)
		}
	} else {
		section.Find("#sizes").Remove()
	}

	section.Find("#price").SetText(r.money.Format(p.UnitPrice(selected)))
	section.Find(`#addForm input[name="id"]`).SetAttr("value", id)
	section.Find(`#addForm input[name="size"]`).SetAttr("value", selected.String())
	section.Find(`#addForm input[name="back"]`).SetAttr("value", back)
	section.Find(`.fav-form input[name="id"]`).SetAttr("value", id)
	section.Find(`.fav-form input[name="back"]`).SetAttr("value", back)
	r.setFavButton(section.Find(".fav"), st != nil && st.IsFavorite(p.ID))

	doc.Find("#main").AppendSelection(section)
	return doc
}

func (r *Renderer) Favorites(st State, toasts []notify.Notification) *goquery.Document {
	doc := r.page("Favorites", "favorites", st, toasts)
	section := fragment(`<section><h1>Favorites</h1><div id="favList"></div></section>`)
	list := section.Find("#favList")

	products := st.FavoriteProducts()
	for _, p := range products {
		row := fragment(`<div class="item-row">
  <img>
  <div>
    <h4 class="title"></h4>
    <div class="sub kind"></div>
    <div class="sub price"></div>
  </div>
  <div class="controls">
    <form method="post" action="/favorites/remove" class="remove-form">
      <input type="hidden" name="id">
      <button type="submit" class="icon-btn">Remove from favorites</button>
    </form>
  </div>
</div>`)
		row.SetAttr("data-id", p.ID.String())
		row.Find("img").SetAttr("src", p.Image).SetAttr("alt", p.Name)
		row.Find(".title").SetText(p.Name)
		if p.HasSizeOptions() {
			row.Find(".kind").SetText("Has sizes, open for details")
		} else {
			row.Find(".kind").SetText("No sizes")
		}
		row.Find(".price").SetText(r.priceText(p))
		row.Find(`.remove-form input[name="id"]`).SetAttr("value", p.ID.String())
		row.Find(".controls").PrependSelection(r.addControl(p, "/favorites"))
		list.AppendSelection(row)
	}
	if len(products) == 0 {
		list.AppendSelection(fragment(`<p class="empty">You have no favorites yet.</p>`))
	}

	doc.Find("#main").AppendSelection(section)
	return doc
}

// CheckoutForm carries the submitted contact details back into the page
// after a validation failure.
type CheckoutForm struct {
	Contact    domain.Contact
	ErrorField string
}

// Cart renders the cart page around the live cart list.
func (r *Renderer) Cart(st State, list *CartList, form CheckoutForm, toasts []notify.Notification) *goquery.Document {
	doc := r.page("Cart", "cart", st, toasts)
	main := doc.Find("#main")
	main.AppendSelection(list.Selection())

	checkout := fragment(`<form id="checkoutForm" method="post" action="/checkout">
  <label>Name <input name="name" required></label>
  <label>Phone <input name="phone" inputmode="numeric" required></label>
  <label>Address <input name="address" required></label>
  <label>Notes <textarea name="notes"></textarea></label>
  <label>Payment
    <select name="pay">
      <option value="Cash">Cash on delivery</option>
      <option value="Card">Card on delivery</option>
    </select>
  </label>
  <button type="submit" class="btn">Order on WhatsApp</button>
</form>`)
	c := form.Contact
	checkout.Find(`input[name="name"]`).SetAttr("value", c.Name)
	checkout.Find(`input[name="phone"]`).SetAttr("value", c.Phone)
	checkout.Find(`input[name="address"]`).SetAttr("value", c.Address)
	checkout.Find(`textarea[name="notes"]`).SetText(c.Notes)
	if c.Payment != "" {
		checkout.Find(`select[name="pay"] option`).Each(func(_ int, o *goquery.Selection) {
			if v, _ := o.Attr("value"); v == c.Payment {
				o.SetAttr("selected", "selected")
			}
		})
	}
	if form.ErrorField != "" {
		checkout.Find(`[name="` + form.ErrorField + `"]`).AddClass("field-error").SetAttr("aria-invalid", "true")
	}

	main.AppendSelection(checkout)
	return doc
}

func (r *Renderer) Contact(st State, toasts []notify.Notification) *goquery.Document {
	doc := r.page("Contact", "contact", st, toasts)
	s := r.settings

	section := fragment(`<section><h1>Contact us</h1><div id="contactCards"></div><iframe id="mapFrame" title="map" loading="lazy"></iframe></section>`)
	cards := section.Find("#contactCards")

	items := []struct{ label, value, href string }{
		{"Phone", s.Phone, "tel:" + s.Phone},
		{"WhatsApp", s.WhatsApp, "https://wa.me/" + s.WhatsApp},
		{"Facebook", s.Facebook, s.Facebook},
		{"Instagram", s.Instagram, s.Instagram},
		{"Address", s.Address, ""},
	}
	for _, it := range items {
		card := fragment(`<div class="cardy"><div class="label"></div><div class="value"></div></div>`)
		card.Find(".label").SetText(it.label)
		value := it.value
		if value == "" {
			value = "-"
		}
		card.Find(".value").SetText(value)
		if it.href != "" && it.value != "" {
			card.SetAttr("data-href", it.href)
			card.Find(".value").WrapInnerHtml(`<a target="_blank" rel="noopener"></a>`)
			card.Find(".value a").SetAttr("href", it.href)
		}
		cards.AppendSelection(card)
	}

	if s.MapEmbed != "" {
		section.Find("#mapFrame").SetAttr("src", s.MapEmbed)
	} else {
		section.Find("#mapFrame").Remove()
	}

	doc.Find("#main").AppendSelection(section)
	return doc
}

// Error is the branded error page.
func (r *Renderer) Error(st State, title, message string, toasts []notify.Notification) *goquery.Document {
	doc := r.page(title, "", st, toasts)
	doc.Find("#main").AppendSelection(errorSection(title, message))
	return doc
}

// ErrorDocument is the standalone error page used before the catalog is
// available.
func ErrorDocument(title, message string) *goquery.Document {
	doc := newDocument(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title></title></head><body><main id="main"></main></body></html>`)
	doc.Find("title").SetText(title)
	doc.Find("#main").AppendSelection(errorSection(title, message))
	return doc
}

func errorSection(title, message string) *goquery.Selection {
	section := fragment(`<section class="error" role="alert"><h1 class="error-title"></h1><p class="error-message"></p></section>`)
	section.Find(".error-title").SetText(title)
	section.Find(".error-message").SetText(message)
	return section
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
