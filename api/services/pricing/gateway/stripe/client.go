package stripegw

import (
	"strings"

	stripe "github.com/stripe/stripe-go"

	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/currency"
	gw "github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway"
)

// supported is the set of currencies checkout sessions are created in.
var supported = []stripe.Currency{
	stripe.CurrencyUSD,
	stripe.CurrencyEUR,
	stripe.CurrencyGBP,
	stripe.CurrencyINR,
	stripe.CurrencyAUD,
	stripe.CurrencyCAD,
	stripe.CurrencySGD,
	stripe.CurrencyAED,
	stripe.CurrencyMYR,
}

// client is the Stripe-backed implementation of the gateway.
type client struct {
	publishableKey string
	table          *currency.Table
}

// New returns a Gateway that describes Stripe checkouts. Minor-unit amounts
// are derived from table's decimals.
func New(publishableKey string, table *currency.Table) gw.Gateway {
	return client{publishableKey: publishableKey, table: table}
}

func (client) Name() string { return "stripe" }

func (client) SupportedCurrencies() []string {
	out := make([]string, 0, len(supported))
	for _, c := range supported {
		out = append(out, strings.ToUpper(string(c)))
	}
	return out
}

func (c client) CheckoutConfig(q gw.Quote) gw.Config {
	// Local rails (UPI, netbanking, wallets) are not offered through Stripe Checkout.
	types := []string{}
	if q.Methods.Card {
		types = append(types, string(stripe.PaymentMethodTypeCard))
	}
	return gw.Config{
		Provider:           c.Name(),
		Currency:           string(toStripeCurrency(q.Currency)),
		PublishableKey:     c.publishableKey,
		MonthlyAmount:      c.table.MinorUnits(q.MonthlyAmount, q.Currency),
		YearlyAmount:       c.table.MinorUnits(q.YearlyAmount, q.Currency),
		PaymentMethodTypes: types,
	}
}

// Stripe expects lowercase ISO codes.
func toStripeCurrency(code string) stripe.Currency {
	return stripe.Currency(strings.ToLower(code))
}
