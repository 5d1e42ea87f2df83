package order

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/domain"

	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^[0-9]{11}$`)

// Options configure the composed message.
type Options struct {
	SiteName    string
	WhatsApp    string // Destination number, digits only after normalization
	Currency    string
	Locale      string
	DeliveryFee decimal.Decimal
	StrictPhone bool
}

// Message is the order hand-off: the text payload and the deep link that
// opens it in WhatsApp.
type Message struct {
	Text        string
	Link        string
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type Composer struct {
	opts  Options
	money Money
}

func NewComposer(opts Options) *Composer {
	return &Composer{
		opts:  opts,
		money: NewMoney(opts.Locale, opts.Currency),
	}
}

func (c *Composer) Money() Money {
	return c.money
}

// Validate runs the checkout checks without composing anything.
func (c *Composer) Validate(lines []cart.ResolvedLine, contact domain.Contact) error {
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}

	required := []struct {
		name  string
		value string
	}{
		{"name", contact.Name},
		{"phone", contact.Phone},
		{"address", contact.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &domain.MissingFieldError{Field: f.name}
		}
	}

	if c.opts.StrictPhone && !phonePattern.MatchString(strings.TrimSpace(contact.Phone)) {
		return domain.ErrInvalidPhoneFormat
	}
	return nil
}

// Compose builds the order text and link from priced cart lines.
func (c *Composer) Compose(lines []cart.ResolvedLine, contact domain.Contact) (Message, error) {
	if err := c.Validate(lines, contact); err != nil {
		return Message{}, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	fee := c.opts.DeliveryFee
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	total := subtotal.Add(fee)

	var b strings.Builder
	if c.opts.SiteName != "" {
		fmt.Fprintf(&b, "New order from %s:\n", c.opts.SiteName)
	} else {
		b.WriteString("New order:\n")
	}
	for _, l := range lines {
		b.WriteString(c.lineText(l))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", c.money.Format(subtotal))
	if !fee.IsZero() {
		fmt.Fprintf(&b, "Delivery: %s\n", c.money.Format(fee))
	}
	fmt.Fprintf(&b, "Total: %s\n", c.money.Format(total))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Name: %s\n", strings.TrimSpace(contact.Name))
	fmt.Fprintf(&b, "Phone: %s\n", strings.TrimSpace(contact.Phone))
	fmt.Fprintf(&b, "Address: %s\n", strings.TrimSpace(contact.Address))
	fmt.Fprintf(&b, "Notes: %s\n", orDash(contact.Notes))
	fmt.Fprintf(&b, "Payment: %s", orDash(contact.Payment))

	text := b.String()
	return Message{
		Text:        text,
		Link:        Link(c.opts.WhatsApp, text),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
	}, nil
}

func (c *Composer) lineText(l cart.ResolvedLine) string {
	name := l.Product.Name
	if label := l.Item.Size.Label(); label != "" {
		name += " " + label
	}
	return fmt.Sprintf("%d× %s — %s", l.Item.Quantity, name, c.money.Format(l.LineTotal))
}

// Link builds the wa.me deep link with text percent-encoded (spaces as %20).
func Link(number, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digitsOnly(number) + "?text=" + escaped
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}
