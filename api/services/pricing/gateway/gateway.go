package gateway

import "github.com/tbeaudouin05/localized-pricing/api/services/pricing/payment"

// Gateway abstracts the payment processor checkouts are settled through.
// Methods return values (not pointers) so fakes stay trivial in tests.
type Gateway interface {
	// Name identifies the provider in checkout payloads, e.g. "stripe".
	Name() string
	// SupportedCurrencies is the fixed whitelist of ISO codes the gateway settles in.
	SupportedCurrencies() []string
	// CheckoutConfig builds the client-side configuration for a quote that is
	// already in a supported currency.
	CheckoutConfig(q Quote) Config
}

// Quote is a localized price pair ready to be handed to a gateway.
type Quote struct {
	Currency      string
	MonthlyAmount float64
	YearlyAmount  float64
	Methods       payment.MethodSet
}

// Config is the gateway section of a gateway pricing response.
// Amounts are in the currency's minor unit.
type Config struct {
	Provider           string   `json:"provider"`
	Currency           string   `json:"currency"`
	PublishableKey     string   `json:"publishableKey,omitempty"`
	MonthlyAmount      int64    `json:"monthlyAmount"`
	YearlyAmount       int64    `json:"yearlyAmount"`
	PaymentMethodTypes []string `json:"paymentMethodTypes"`
}
