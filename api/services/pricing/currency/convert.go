package currency

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// Convert turns a USD base price into target, applying the PPP multiplier
// of countryCode (if any) before the exchange rate, and rounds half-up to
// the currency's decimals.
//
// An unknown target returns basePriceUSD unchanged; callers keep pairing the
// number with the requested code.
func (t *Table) Convert(basePriceUSD float64, target, countryCode string) float64 {
	rate, ok := t.Rate(target)
	if !ok {
		slog.Warn("unsupported currency, returning base price", "currency", target, "base_price_usd", basePriceUSD)
		return basePriceUSD
	}

	amount := decimal.NewFromFloat(basePriceUSD)
	if countryCode != "" {
		if mult, ok := t.PPP(countryCode); ok {
			amount = amount.Mul(decimal.NewFromFloat(mult))
		}
	}
	amount = amount.Mul(decimal.NewFromFloat(rate))

	f, _ := amount.Round(int32(t.Decimals(target))).Float64()
	return f
}

// MinorUnits expresses amount in the smallest unit of code (cents, paise,
// fils), as payment gateways expect.
func (t *Table) MinorUnits(amount float64, code string) int64 {
	d := int32(t.Decimals(strings.ToUpper(code)))
	return decimal.NewFromFloat(amount).Round(d).Shift(d).IntPart()
}
