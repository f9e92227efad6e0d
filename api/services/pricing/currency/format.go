package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Grouping is pinned to English so output never depends on the host locale.
var printer = message.NewPrinter(language.English)

// Format renders amount with thousands separators, exactly the currency's
// number of fraction digits and its symbol, e.g. "$1,234.50", "¥100",
// "100 kr". Unknown codes use USD's metadata.
func (t *Table) Format(amount float64, code string) string {
	m := t.Meta(code)

	rounded, _ := decimal.NewFromFloat(amount).Round(int32(m.Decimals)).Float64()
	digits := printer.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(m.Decimals),
		number.MaxFractionDigits(m.Decimals),
	))

	if m.Position == After {
		return digits + " " + m.Symbol
	}
	return m.Symbol + digits
}
