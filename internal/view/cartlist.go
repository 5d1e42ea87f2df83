package view

import (
	"fmt"
	"sync"

	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/session"

	"github.com/PuerkitoBio/goquery"
)

const cartSectionHTML = `<html><body><section id="cart">
  <h1>Cart</h1>
  <div id="cartList"></div>
  <form method="post" action="/cart/clear" id="clearForm"><button type="submit" class="icon-btn">Clear cart</button></form>
  <div class="total">Total: <span id="cartTotal"></span></div>
</section></body></html>`

// LiveState is a session the cart list can follow.
type LiveState interface {
	State
	CartSnapshot() session.CartSnapshot
	Subscribe(fn session.Subscriber) func()
}

// CartList is a long-lived cart document. After the first Render it follows
// session changes and patches quantity labels, line totals and the grand
// total in place; rows are only rebuilt by Render.
//
// Changes may be delivered out of order. A change is applied to a row only if
// it is newer than what that row shows, and to the total only if it is the
// newest change seen.
type CartList struct {
	renderer *Renderer
	state    LiveState

	mu          sync.Mutex
	doc         *goquery.Document
	rebuilds    int
	unsubscribe func()

	baseline uint64                    // newest full render or clear
	totalSeq uint64                    // newest change shown in the total
	lineSeq  map[domain.LineKey]uint64 // newest change shown per row
}

func (r *Renderer) NewCartList(st LiveState) *CartList {
	l := &CartList{
		renderer: r,
		state:    st,
		doc:      newDocument(cartSectionHTML),
		lineSeq:  make(map[domain.LineKey]uint64),
	}
	l.unsubscribe = st.Subscribe(l.Apply)
	l.Render()
	return l
}

// Render rebuilds every row from the session. The snapshot is read under
// l.mu so changes up to its Seq are either already superseded or dropped.
func (l *CartList) Render() {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.state.CartSnapshot()

	list := l.doc.Find("#cartList")
	list.Empty()
	for _, line := range snap.Lines {
		list.AppendSelection(l.row(line))
	}
	l.baseline = snap.Seq
	l.totalSeq = snap.Seq
	l.lineSeq = make(map[domain.LineKey]uint64)
	l.setTotalLocked(snap.Total.String(), l.renderer.money.Format(snap.Total))
	l.toggleEmptyLocked()
	l.rebuilds++
}

// Apply patches the document for one session change.
func (l *CartList) Apply(ch session.Change) {
	switch ch.Kind {
	case session.ChangeLoaded:
		l.Render()
		return
	case session.ChangeFavorite:
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if ch.Seq <= l.baseline {
		return
	}

	list := l.doc.Find("#cartList")
	switch ch.Kind {
	case session.ChangeCartCleared:
		list.Find(".item-row").Remove()
		l.baseline = ch.Seq
		l.lineSeq = make(map[domain.LineKey]uint64)
	case session.ChangeCartLine:
		if ch.Seq > l.lineSeq[ch.Key] {
			l.lineSeq[ch.Key] = ch.Seq
			l.patchRowLocked(list, ch)
		}
	}

	if ch.Seq > l.totalSeq {
		l.totalSeq = ch.Seq
		l.setTotalLocked(ch.CartTotal.String(), l.renderer.money.Format(ch.CartTotal))
	}
	l.toggleEmptyLocked()
}

func (l *CartList) patchRowLocked(list *goquery.Selection, ch session.Change) {
	row := list.Find(rowSelector(ch.Key))
	switch {
	case ch.Removed:
		row.Remove()
	case !ch.Resolved:
		// Orphaned lines are never shown.
	case row.Length() == 0:
		list.AppendSelection(l.row(ch.Line))
	default:
		row.Find(".qtynum").SetText(itoa(ch.Line.Item.Quantity))
		row.Find(".linetotal").SetText(l.renderer.money.Format(ch.Line.LineTotal))
	}
}

// Selection returns a copy of the cart section for embedding in a page.
func (l *CartList) Selection() *goquery.Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Find("#cart").Clone()
}

// Rebuilds counts full renders.
func (l *CartList) Rebuilds() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rebuilds
}

// Close stops following the session.
func (l *CartList) Close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
}

func (l *CartList) row(line cart.ResolvedLine) *goquery.Selection {
	row := fragment(`<div class="item-row">
  <img>
  <div>
    <h4 class="title"></h4>
    <div class="sub size"></div>
    <div class="sub unit"></div>
  </div>
  <div class="controls">
    <form method="post" action="/cart/dec"><input type="hidden" name="key"><button type="submit" class="minus" aria-label="Decrease quantity">−</button></form>
    <span class="qtynum"></span>
    <form method="post" action="/cart/inc"><input type="hidden" name="key"><button type="submit" class="plus" aria-label="Increase quantity">+</button></form>
    <span class="linetotal"></span>
    <form method="post" action="/cart/remove"><input type="hidden" name="key"><button type="submit" class="icon-btn" aria-label="Remove from cart">Remove</button></form>
  </div>
</div>`)

	p := line.Product
	key := line.Item.Key().String()
	row.SetAttr("data-key", key)
	row.Find("img").SetAttr("src", p.Image).SetAttr("alt", p.Name)
	row.Find(".title").SetText(p.Name)
	if label := line.Item.Size.Label(); label != "" {
		row.Find(".size").SetText("Size: " + label)
	} else {
		row.Find(".size").Remove()
	}
	row.Find(".unit").SetText("Price: " + l.renderer.money.Format(line.UnitPrice))
	row.Find(`input[name="key"]`).SetAttr("value", key)
	row.Find(".qtynum").SetText(itoa(line.Item.Quantity))
	row.Find(".linetotal").SetText(l.renderer.money.Format(line.LineTotal))
	return row
}

func (l *CartList) setTotalLocked(raw, display string) {
	l.doc.Find("#cartTotal").SetText(display).SetAttr("data-total", raw)
}

func (l *CartList) toggleEmptyLocked() {
	list := l.doc.Find("#cartList")
	empty := list.Find(".empty")
	hasRows := list.Find(".item-row").Length() > 0
	switch {
	case hasRows && empty.Length() > 0:
		empty.Remove()
	case !hasRows && empty.Length() == 0:
		list.AppendSelection(fragment(`<p class="empty">Your cart is empty.</p>`))
	}
}

func rowSelector(key domain.LineKey) string {
	return fmt.Sprintf(`.item-row[data-key="%s"]`, key.String())
}
