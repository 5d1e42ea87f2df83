package view

import (
	"strings"

	"restaurant/ordering/internal/notify"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLogo is shown when the catalog settings carry no logo.
const DefaultLogo = "https://images.unsplash.com/photo-1541745537413-b804ba48d929?q=80&w=400&auto=format&fit=crop"

const layoutHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title></title></head>
<body>
<header>
  <a id="brand" href="/"><img id="logoImg" alt="logo"><span id="siteName"></span></a>
  <nav id="nav">
    <a data-page="home" href="/">Home</a>
    <a data-page="menu" href="/menu">Menu</a>
    <a data-page="favorites" href="/favorites">Favorites <span id="favCount" class="badge">0</span></a>
    <a data-page="cart" href="/cart">Cart <span id="cartCount" class="badge">0</span></a>
    <a data-page="contact" href="/contact">Contact</a>
  </nav>
</header>
<div id="toasts"></div>
<main id="main"></main>
<footer>
  <img id="footerLogo" alt="logo">
  <strong id="footerName"></strong>
  <p id="footerTag"></p>
  <a id="footerPhone">Call us</a>
  <a id="footerWhats">WhatsApp</a>
  <span id="footerAddress"></span>
  <small>© <span id="yearNow"></span> <span id="copyName"></span></small>
</footer>
</body>
</html>`

// newDocument parses trusted, constant markup.
func newDocument(markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		panic("view: invalid markup: " + err.Error())
	}
	return doc
}

// fragment parses trusted markup into detached elements ready to be filled
// with SetText/SetAttr and appended to a page.
func fragment(markup string) *goquery.Selection {
	return newDocument("<html><body>" + markup + "</body></html>").Find("body").Children()
}

// HTML serializes a document.
func HTML(doc *goquery.Document) (string, error) {
	return doc.Html()
}

func setToasts(doc *goquery.Document, toasts []notify.Notification) {
	box := doc.Find("#toasts")
	for _, n := range toasts {
		t := fragment(`<div class="toast" role="status"></div>`)
		t.AddClass("toast-" + string(n.Level)).SetText(n.Message)
		box.AppendSelection(t)
	}
}
