package app

import (
	"fmt"

	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/currency"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/payment"
)

type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Plan is a subscription plan priced in USD before localization.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Period       Period  `json:"period"`
	BasePriceUSD float64 `json:"basePriceUsd"`
}

// Plans holds the two canonical plans. The yearly price is set on its own
// to express the annual discount.
type Plans struct {
	Monthly Plan
	Yearly  Plan
}

// Business defaults, in USD.
const (
	DefaultMonthlyUSD = 6
	DefaultYearlyUSD  = 60
)

// NewPlans builds the canonical monthly and yearly plans.
func NewPlans(monthlyUSD, yearlyUSD float64) (Plans, error) {
	if monthlyUSD <= 0 || yearlyUSD <= 0 {
		return Plans{}, fmt.Errorf("%w: plan prices must be positive (monthly=%v, yearly=%v)", ErrInvalidPlan, monthlyUSD, yearlyUSD)
	}
	return Plans{
		Monthly: Plan{ID: "monthly", Name: "Monthly", Period: PeriodMonth, BasePriceUSD: monthlyUSD},
		Yearly:  Plan{ID: "yearly", Name: "Yearly", Period: PeriodYear, BasePriceUSD: yearlyUSD},
	}, nil
}

// DefaultPlans returns the plans at their default prices.
func DefaultPlans() Plans {
	p, _ := NewPlans(DefaultMonthlyUSD, DefaultYearlyUSD)
	return p
}

// PlanPrice is one plan localized into a currency.
type PlanPrice struct {
	PlanID         string  `json:"planId"`
	Name           string  `json:"name"`
	Period         Period  `json:"period"`
	BasePriceUSD   float64 `json:"basePriceUsd"`
	Amount         float64 `json:"amount"`
	Formatted      string  `json:"formatted"`
	SavingsPercent int     `json:"savingsPercent,omitempty"`
}

// Pricing is the localized price list shown to a requester.
type Pricing struct {
	Currency     string        `json:"currency"`
	Monthly      PlanPrice     `json:"monthly"`
	Yearly       PlanPrice     `json:"yearly"`
	CurrencyInfo currency.Meta `json:"currencyInfo"`
}

// PricingResult is the complete pricing decision for one request.
// Keep value types to avoid pointer proliferation in domain.
type PricingResult struct {
	Location         geo.CountryInfo   `json:"location"`
	Pricing          Pricing           `json:"pricing"`
	PaymentMethods   payment.MethodSet `json:"paymentMethods"`
	PaymentBucket    payment.Bucket    `json:"paymentBucket"`
	FallbackUsed     bool              `json:"fallbackUsed"`
	OriginalCurrency string            `json:"originalCurrency,omitempty"`
}

// GatewayPricingResult is a compatible PricingResult with the checkout
// configuration of the payment gateway.
type GatewayPricingResult struct {
	PricingResult
	Gateway gateway.Config `json:"gateway"`
}
