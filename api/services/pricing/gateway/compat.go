package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/payment"
)

// ErrFallbackNotSupported is returned when a gateway does not accept one of
// the regional fallback currencies.
var ErrFallbackNotSupported = errors.New("fallback currency not supported by gateway")

// FallbackCurrency is used when no regional rule matches.
const FallbackCurrency = "USD"

var regionalFallbacks = []struct {
	countries []string
	currency  string
}{
	{[]string{"IN"}, "INR"},
	{nil, "EUR"}, // euro area, see payment.IsEU
	{[]string{"GB"}, "GBP"},
	{[]string{"AU", "NZ"}, "AUD"},
	{[]string{"CA"}, "CAD"},
	{[]string{"SG"}, "SGD"},
	{[]string{"AE", "SA", "QA", "KW", "BH", "OM"}, "AED"},
	{[]string{"MY"}, "MYR"},
}

// Resolver decides whether a currency can be settled by the gateway and
// picks a regional substitute when it cannot.
type Resolver struct {
	supported map[string]struct{}
}

// NewResolver builds a Resolver over a gateway's currency whitelist. Every
// regional fallback must be in the whitelist so that resolution is
// idempotent.
func NewResolver(supported []string) (Resolver, error) {
	r := Resolver{supported: make(map[string]struct{}, len(supported))}
	for _, c := range supported {
		r.supported[strings.ToUpper(c)] = struct{}{}
	}
	targets := []string{FallbackCurrency}
	for _, rule := range regionalFallbacks {
		targets = append(targets, rule.currency)
	}
	for _, c := range targets {
		if !r.IsSupported(c) {
			return Resolver{}, fmt.Errorf("%w: %s", ErrFallbackNotSupported, c)
		}
	}
	return r, nil
}

// IsSupported reports whether the gateway settles in currency.
func (r Resolver) IsSupported(currency string) bool {
	_, ok := r.supported[strings.ToUpper(currency)]
	return ok
}

// ResolveFallback returns currency unchanged when the gateway supports it,
// otherwise the regional fallback for countryCode, otherwise USD.
func (r Resolver) ResolveFallback(currency, countryCode string) string {
	if r.IsSupported(currency) {
		return strings.ToUpper(currency)
	}
	code := strings.ToUpper(countryCode)
	for _, rule := range regionalFallbacks {
		if rule.countries == nil {
			if payment.IsEU(code) {
				return rule.currency
			}
			continue
		}
		for _, c := range rule.countries {
			if c == code {
				return rule.currency
			}
		}
	}
	return FallbackCurrency
}
