package cli

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"text/tabwriter"

	"restaurant/ordering/internal/cart"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/order"

	"github.com/shopspring/decimal"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printProducts(w io.Writer, products []domain.Product, money order.Money, favorite func(domain.ProductID) bool) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tFAV")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, priceText(p, money), favMark(favorite(p.ID)))
	}
	return tw.Flush()
}

func priceText(p domain.Product, money order.Money) string {
	if !p.HasSizeOptions() {
		return money.Format(p.UnitPrice(domain.SizeNone))
	}
	parts := make([]string, 0, len(domain.Sizes))
	for _, s := range p.AvailableSizes() {
		parts = append(parts, s.String()+" "+money.Format(p.Prices[s]))
	}
	return strings.Join(parts, " / ")
}

func printCart(w io.Writer, lines []cart.ResolvedLine, total decimal.Decimal, money order.Money) error {
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "KEY\tQTY\tNAME\tSIZE\tLINE TOTAL")
	for _, l := range lines {
		size := l.Item.Size.Label()
		if size == "" {
			size = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", l.Item.Key(), l.Item.Quantity, l.Product.Name, size, money.Format(l.LineTotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", money.Format(total))
	return err
}

func favMark(on bool) string {
	if on {
		return "♥"
	}
	return ""
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --addr port %q: %w", portStr, err)
	}
	return host, port, nil
}
