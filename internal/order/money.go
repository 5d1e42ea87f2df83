package order

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultCurrency = "EGP"

// Money formats amounts for display in a locale, e.g. "1,250 EGP".
type Money struct {
	printer  *message.Printer
	currency string
	point    string // locale decimal separator
}

func NewMoney(locale, currency string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	printer := message.NewPrinter(tag)
	one := printer.Sprint(number.Decimal(1))
	five := printer.Sprint(number.Decimal(5))
	point := strings.TrimSuffix(strings.TrimPrefix(printer.Sprint(number.Decimal(1.5)), one), five)
	if point == "" {
		point = "."
	}

	return Money{
		printer:  printer,
		currency: currency,
		point:    point,
	}
}

// Format rounds to two fraction digits. Whole and fraction parts are printed
// as integers so the amount never passes through a float.
func (m Money) Format(amount decimal.Decimal) string {
	amount = amount.Round(2)
	abs := amount.Abs()
	whole := abs.Truncate(0)

	out := m.printer.Sprint(number.Decimal(whole.IntPart()))
	if frac := strings.TrimRight(abs.Sub(whole).StringFixed(2)[2:], "0"); frac != "" {
		digits := decimal.RequireFromString(frac).IntPart()
		out += m.point + m.printer.Sprint(number.Decimal(digits, number.MinIntegerDigits(len(frac))))
	}
	if amount.IsNegative() {
		out = "-" + out
	}
	return out + " " + m.currency
}

func (m Money) Currency() string {
	return m.currency
}
