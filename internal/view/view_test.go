package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"restaurant/ordering/internal/catalog"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/notify"
	"restaurant/ordering/internal/order"
	"restaurant/ordering/internal/session"
	"restaurant/ordering/internal/state"

	"github.com/PuerkitoBio/goquery"
	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Settings: domain.Settings{
			SiteName: "Mam's Pizza",
			WhatsApp: "201000000000",
			Phone:    "0123",
			Address:  "12 Nile St",
			Banners:  []string{"/img/b1.jpg", "/img/b2.jpg"},
		},
		Categories: domain.Categories{
			Categories: []domain.Category{{ID: "pizza", Name: "Pizza"}, {ID: "drinks", Name: "Drinks"}},
			SubFilters: map[string][]string{"pizza": {"veg", "meat"}},
		},
		Products: []domain.Product{
			{
				ID:             1,
				Name:           "Margherita",
				Category:       "pizza",
				Tags:           []string{"veg"},
				OptionsEnabled: true,
				Featured:       true,
				Prices: map[domain.Size]decimal.Decimal{
					domain.SizeSmall:  decimal.NewFromInt(50),
					domain.SizeMedium: decimal.NewFromInt(70),
				},
			},
			{ID: 2, Name: "Cola", Category: "drinks", Keywords: "soda", Price: decimal.NewFromInt(15)},
			{ID: 3, Name: "Pepperoni", Category: "pizza", Tags: []string{"meat"}, Price: decimal.NewFromInt(90)},
		},
	}
}

func newTestSession(t *testing.T, cat *domain.Catalog) (*session.Session, *Renderer) {
	t.Helper()

	index := catalog.NewIndex(cat.Products)
	snaps := state.NewSnapshots(state.NewMemoryStore())
	persister := state.NewPersister(snaps, clock.NewMock(), 200*time.Millisecond)
	composer := order.NewComposer(order.Options{WhatsApp: cat.Settings.WhatsApp, StrictPhone: true})

	s := session.New(index, snaps, persister, notify.NewQueue(nil), composer)
	s.Load(context.Background())

	return s, NewRenderer(cat.Settings, cat.Categories, index, composer.Money())
}

func TestLayout_BrandingBadgesAndToasts(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	_, err := s.AddToCart(2, "", 3)
	require.NoError(t, err)
	_, err = s.ToggleFavorite(1)
	require.NoError(t, err)

	doc := r.Home(s, []notify.Notification{notify.Success("Cola added to cart"), notify.Error("Product not found")})

	assert.Equal(t, "Home · Mam's Pizza", doc.Find("title").Text())
	assert.Equal(t, "Mam's Pizza", doc.Find("#siteName").Text())
	assert.Equal(t, "3", doc.Find("#cartCount").Text())
	assert.Equal(t, "1", doc.Find("#favCount").Text())
	src, _ := doc.Find("#logoImg").Attr("src")
	assert.Equal(t, DefaultLogo, src)
	href, _ := doc.Find("#footerWhats").Attr("href")
	assert.Equal(t, "https://wa.me/201000000000", href)
	assert.True(t, doc.Find(`#nav a[data-page="home"]`).HasClass("active"))

	toasts := doc.Find("#toasts .toast")
	require.Equal(t, 2, toasts.Length())
	assert.True(t, toasts.Eq(0).HasClass("toast-success"))
	assert.True(t, toasts.Eq(1).HasClass("toast-error"))
	assert.Equal(t, "Product not found", toasts.Eq(1).Text())
}

func TestHome_FeaturedAndBanners(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	doc := r.Home(s, nil)

	assert.Equal(t, 2, doc.Find("#bannerSlider img.banner").Length())
	cards := doc.Find("#featuredRow .card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "Margherita", cards.Find(".title").Text())
	assert.Equal(t, "From 50 EGP", cards.Find(".price").Text())
	assert.Equal(t, 1, cards.Find("a.choose").Length(), "size-option products link to their page")
}

func TestMenu_Filters(t *testing.T) {
	s, r := newTestSession(t, testCatalog())

	tests := []struct {
		name      string
		filter    domain.Filter
		wantNames []string
		wantSubs  int
	}{
		{name: "all", filter: domain.Filter{}, wantNames: []string{"Margherita", "Cola", "Pepperoni"}},
		{name: "category", filter: domain.Filter{Category: "pizza"}, wantNames: []string{"Margherita", "Pepperoni"}, wantSubs: 2},
		{name: "sub filter", filter: domain.Filter{Category: "pizza", Tag: "meat"}, wantNames: []string{"Pepperoni"}, wantSubs: 3},
		{name: "search keywords", filter: domain.Filter{Query: "SODA"}, wantNames: []string{"Cola"}},
		{name: "no match", filter: domain.Filter{Query: "sushi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := r.Menu(s, tt.filter, nil)

			var names []string
			doc.Find("#menuProds .card .title").Each(func(_ int, sel *goquery.Selection) {
				names = append(names, sel.Text())
			})
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantSubs, doc.Find("#subFilters a").Length())
			assert.Equal(t, len(tt.wantNames) == 0, doc.Find("#menuProds .empty").Length() == 1)

			q, _ := doc.Find(`#search input[name="q"]`).Attr("value")
			assert.Equal(t, tt.filter.Query, q)
		})
	}

	doc := r.Menu(s, domain.Filter{Category: "drinks"}, nil)
	assert.True(t, doc.Find(`#filters a[data-cat="drinks"]`).HasClass("active"))
	assert.False(t, doc.Find(`#filters a[data-cat="pizza"]`).HasClass("active"))
}

func TestProduct_SizeSelector(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	p, err := catalog.NewIndex(testCatalog().Products).Lookup(1)
	require.NoError(t, err)

	doc := r.Product(s, p, domain.SizeMedium, nil)
	sizes := doc.Find("#sizes a.size")
	require.Equal(t, 2, sizes.Length(), "only priced sizes are offered")
	assert.Equal(t, "Small", sizes.Eq(0).Text())
	assert.True(t, sizes.Eq(1).HasClass("active"))
	assert.Equal(t, "70 EGP", doc.Find("#price").Text())
	size, _ := doc.Find(`#addForm input[name="size"]`).Attr("value")
	assert.Equal(t, "M", size)

	doc = r.Product(s, p, domain.SizeLarge, nil)
	assert.Equal(t, "50 EGP", doc.Find("#price").Text(), "unpriced size falls back to the smallest")

	cola, err := catalog.NewIndex(testCatalog().Products).Lookup(2)
	require.NoError(t, err)
	doc = r.Product(s, cola, domain.SizeNone, nil)
	assert.Equal(t, 0, doc.Find("#sizes").Length())
	assert.Equal(t, "15 EGP", doc.Find("#price").Text())
}

func TestFavorites_Rows(t *testing.T) {
	s, r := newTestSession(t, testCatalog())

	doc := r.Favorites(s, nil)
	assert.Equal(t, 1, doc.Find("#favList .empty").Length())

	_, err := s.ToggleFavorite(1)
	require.NoError(t, err)
	_, err = s.ToggleFavorite(2)
	require.NoError(t, err)

	doc = r.Favorites(s, nil)
	rows := doc.Find("#favList .item-row")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, 1, rows.Eq(0).Find("a.choose").Length())
	assert.Equal(t, 1, rows.Eq(1).Find("form.add-form").Length())
	assert.Equal(t, 2, doc.Find("#favList .remove-form").Length())
}

func TestCartList_IncrementalUpdates(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	_, err := s.AddToCart(1, "S", 1)
	require.NoError(t, err)
	_, err = s.AddToCart(2, "", 2)
	require.NoError(t, err)

	list := r.NewCartList(s)
	defer list.Close()
	require.Equal(t, 1, list.Rebuilds())

	sec := list.Selection()
	assert.Equal(t, 2, sec.Find(".item-row").Length())
	assert.Equal(t, "80 EGP", sec.Find("#cartTotal").Text())

	pizzaKey := domain.LineKey{ProductID: 1, Size: domain.SizeSmall}
	s.IncrementLine(pizzaKey)
	s.IncrementLine(pizzaKey)

	sec = list.Selection()
	row := sec.Find(`.item-row[data-key="1:S"]`)
	assert.Equal(t, "3", row.Find(".qtynum").Text())
	assert.Equal(t, "150 EGP", row.Find(".linetotal").Text())
	assert.Equal(t, "180 EGP", sec.Find("#cartTotal").Text())
	assert.Equal(t, 1, list.Rebuilds(), "quantity changes patch in place")

	s.RemoveLine(domain.LineKey{ProductID: 2})
	sec = list.Selection()
	assert.Equal(t, 1, sec.Find(".item-row").Length())
	assert.Equal(t, "150 EGP", sec.Find("#cartTotal").Text())

	_, err = s.AddToCart(3, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Selection().Find(`.item-row[data-key="3"]`).Length())

	s.ClearCart()
	sec = list.Selection()
	assert.Equal(t, 0, sec.Find(".item-row").Length())
	assert.Equal(t, 1, sec.Find(".empty").Length())
	assert.Equal(t, "0 EGP", sec.Find("#cartTotal").Text())
	assert.Equal(t, 1, list.Rebuilds())
}

func TestCartList_LateChangeDoesNotOverwriteNewer(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	pizzaKey := domain.LineKey{ProductID: 1, Size: domain.SizeSmall}
	_, err := s.AddToCart(1, "S", 1)
	require.NoError(t, err)

	list := r.NewCartList(s)
	list.Close()

	// Hold the qty-2 change back until the qty-3 change has been applied.
	held := make(chan struct{})
	release := make(chan struct{})
	unsubscribe := s.Subscribe(func(ch session.Change) {
		if ch.Kind == session.ChangeCartLine && ch.Line.Item.Quantity == 2 {
			close(held)
			<-release
		}
		list.Apply(ch)
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.IncrementLine(pizzaKey)
	}()

	<-held
	s.IncrementLine(pizzaKey)
	close(release)
	<-done

	sec := list.Selection()
	total, _ := sec.Find("#cartTotal").Attr("data-total")
	assert.Equal(t, s.CartTotal().String(), total)
	assert.Equal(t, "150", total)
	assert.Equal(t, "3", sec.Find(`.item-row[data-key="1:S"] .qtynum`).Text())
}

func TestCartList_OutOfOrderChanges(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	pizzaKey := domain.LineKey{ProductID: 1, Size: domain.SizeSmall}
	colaKey := domain.LineKey{ProductID: 2}
	_, err := s.AddToCart(1, "S", 1)
	require.NoError(t, err)
	_, err = s.AddToCart(2, "", 1)
	require.NoError(t, err)

	list := r.NewCartList(s)
	list.Close()

	var changes []session.Change
	unsubscribe := s.Subscribe(func(ch session.Change) {
		changes = append(changes, ch)
	})
	defer unsubscribe()

	s.IncrementLine(pizzaKey)
	s.IncrementLine(colaKey)
	require.Len(t, changes, 2)

	list.Apply(changes[1])
	list.Apply(changes[0])

	sec := list.Selection()
	assert.Equal(t, "2", sec.Find(`.item-row[data-key="1:S"] .qtynum`).Text(), "older change on another line still applies")
	assert.Equal(t, "2", sec.Find(`.item-row[data-key="2"] .qtynum`).Text())
	assert.Equal(t, "130 EGP", sec.Find("#cartTotal").Text())

	s.ClearCart()
	require.Len(t, changes, 3)
	list.Apply(changes[2])
	list.Apply(changes[0])

	sec = list.Selection()
	assert.Equal(t, 0, sec.Find(".item-row").Length(), "changes from before a clear are dropped")
	assert.Equal(t, "0 EGP", sec.Find("#cartTotal").Text())
	assert.Equal(t, 1, list.Rebuilds())
}

func TestCartPage_FormAndList(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	_, err := s.AddToCart(2, "", 1)
	require.NoError(t, err)

	list := r.NewCartList(s)
	defer list.Close()

	doc := r.Cart(s, list, CheckoutForm{
		Contact:    domain.Contact{Name: "Sara", Phone: "123", Payment: "Card"},
		ErrorField: "phone",
	}, nil)

	assert.Equal(t, 1, doc.Find("#main #cartList .item-row").Length())
	name, _ := doc.Find(`#checkoutForm input[name="name"]`).Attr("value")
	assert.Equal(t, "Sara", name)
	assert.True(t, doc.Find(`#checkoutForm input[name="phone"]`).HasClass("field-error"))
	_, selected := doc.Find(`#checkoutForm option[value="Card"]`).Attr("selected")
	assert.True(t, selected)
}

func TestContact_Cards(t *testing.T) {
	s, r := newTestSession(t, testCatalog())
	doc := r.Contact(s, nil)

	cards := doc.Find("#contactCards .cardy")
	require.Equal(t, 5, cards.Length())
	assert.Equal(t, "-", cards.Eq(2).Find(".value").Text(), "missing facebook shows a dash")
	href, _ := cards.Eq(1).Find(".value a").Attr("href")
	assert.Equal(t, "https://wa.me/201000000000", href)
	assert.Equal(t, 0, doc.Find("#mapFrame").Length())
}

func TestRender_EscapesCatalogText(t *testing.T) {
	cat := testCatalog()
	cat.Products[1].Name = `<script>alert(1)</script>`
	s, r := newTestSession(t, cat)

	out, err := HTML(r.Menu(s, domain.Filter{}, nil))
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestErrorDocument(t *testing.T) {
	out, err := HTML(ErrorDocument("Unavailable", "Could not load the menu"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Could not load the menu")
}
