package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/currency"
	gw "github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/payment"
)

// Entry points, used as metric and log labels.
const (
	EntryPricing    = "pricing"
	EntryCompatible = "compatible"
	EntryGateway    = "gateway"
)

// Locator resolves a requester's location. *geo.Resolver satisfies it.
type Locator interface {
	Resolve(ctx context.Context, ip string, headers http.Header) geo.CountryInfo
}

// Service defines the pricing decisions exposed to transports.
// None of the operations fail: unexpected errors yield the default result.
type Service interface {
	ResolvePricing(ctx context.Context, req Request) PricingResult
	ResolveCompatiblePricing(ctx context.Context, req Request) PricingResult
	ResolveGatewayPricing(ctx context.Context, req Request) GatewayPricingResult
}

type serviceImpl struct {
	locator  Locator
	table    *currency.Table
	plans    Plans
	gateway  gw.Gateway
	resolver gw.Resolver
	logger   *slog.Logger

	defaultResult        PricingResult
	defaultGatewayResult GatewayPricingResult
}

// NewService wires the pipeline. The gateway's currency whitelist must cover
// every regional fallback target.
func NewService(locator Locator, table *currency.Table, plans Plans, g gw.Gateway, logger *slog.Logger) (Service, error) {
	resolver, err := gw.NewResolver(g.SupportedCurrencies())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := serviceImpl{
		locator:  locator,
		table:    table,
		plans:    plans,
		gateway:  g,
		resolver: resolver,
		logger:   logger,
	}
	s.defaultResult = s.build(geo.Default, geo.Default.Currency)
	s.defaultGatewayResult = GatewayPricingResult{
		PricingResult: s.defaultResult,
		Gateway:       g.CheckoutConfig(quoteFor(s.defaultResult)),
	}
	return s, nil
}

// ResolvePricing prices the plans in the requester's local currency.
func (s serviceImpl) ResolvePricing(ctx context.Context, req Request) (res PricingResult) {
	defer func() {
		if r := recover(); r != nil {
			s.recovered(ctx, EntryPricing, r)
			res = s.defaultResult
		}
	}()
	loc := s.locate(ctx, req)
	res = s.build(loc, loc.Currency)
	s.observe(EntryPricing, res)
	return res
}

// ResolveCompatiblePricing prices the plans in a currency the gateway can
// charge, substituting the regional fallback when needed.
func (s serviceImpl) ResolveCompatiblePricing(ctx context.Context, req Request) (res PricingResult) {
	defer func() {
		if r := recover(); r != nil {
			s.recovered(ctx, EntryCompatible, r)
			res = s.defaultResult
		}
	}()
	res = s.compatible(ctx, req)
	s.observe(EntryCompatible, res)
	return res
}

// ResolveGatewayPricing returns compatible pricing plus the checkout
// configuration for the gateway.
func (s serviceImpl) ResolveGatewayPricing(ctx context.Context, req Request) (res GatewayPricingResult) {
	defer func() {
		if r := recover(); r != nil {
			s.recovered(ctx, EntryGateway, r)
			res = s.defaultGatewayResult
		}
	}()
	base := s.compatible(ctx, req)
	res = GatewayPricingResult{
		PricingResult: base,
		Gateway:       s.gateway.CheckoutConfig(quoteFor(base)),
	}
	s.observe(EntryGateway, base)
	return res
}

func (s serviceImpl) locate(ctx context.Context, req Request) geo.CountryInfo {
	return s.locator.Resolve(ctx, ClientIP(req), req.Header)
}

func (s serviceImpl) compatible(ctx context.Context, req Request) PricingResult {
	loc := s.locate(ctx, req)
	res := s.build(loc, loc.Currency)
	fallback := s.resolver.ResolveFallback(res.Pricing.Currency, loc.CountryCode)
	if fallback == res.Pricing.Currency {
		return res
	}
	s.logger.InfoContext(ctx, "pricing currency substituted for gateway",
		"gateway", s.gateway.Name(),
		"country", loc.CountryCode,
		"from", res.Pricing.Currency,
		"to", fallback)
	original := res.Pricing.Currency
	res = s.build(loc, fallback)
	res.FallbackUsed = true
	res.OriginalCurrency = original
	return res
}

func (s serviceImpl) build(loc geo.CountryInfo, code string) PricingResult {
	bucket := payment.BucketFor(loc.CountryCode)
	return PricingResult{
		Location:       loc,
		Pricing:        s.price(code, loc.CountryCode),
		PaymentMethods: bucket.Methods(),
		PaymentBucket:  bucket,
	}
}

func (s serviceImpl) price(code, country string) Pricing {
	code = strings.ToUpper(strings.TrimSpace(code))
	monthly := s.planPrice(s.plans.Monthly, code, country)
	yearly := s.planPrice(s.plans.Yearly, code, country)
	yearly.SavingsPercent = savingsPercent(s.plans.Monthly.BasePriceUSD, s.plans.Yearly.BasePriceUSD)
	return Pricing{
		Currency:     code,
		Monthly:      monthly,
		Yearly:       yearly,
		CurrencyInfo: s.table.Meta(code),
	}
}

func (s serviceImpl) planPrice(p Plan, code, country string) PlanPrice {
	amount := s.table.Convert(p.BasePriceUSD, code, country)
	return PlanPrice{
		PlanID:       p.ID,
		Name:         p.Name,
		Period:       p.Period,
		BasePriceUSD: p.BasePriceUSD,
		Amount:       amount,
		Formatted:    s.table.Format(amount, code),
	}
}

// savingsPercent compares a yearly price with twelve monthly payments.
func savingsPercent(monthlyUSD, yearlyUSD float64) int {
	full := monthlyUSD * 12
	if full <= 0 || yearlyUSD >= full {
		return 0
	}
	return int(math.Round((1 - yearlyUSD/full) * 100))
}

func quoteFor(res PricingResult) gw.Quote {
	return gw.Quote{
		Currency:      res.Pricing.Currency,
		MonthlyAmount: res.Pricing.Monthly.Amount,
		YearlyAmount:  res.Pricing.Yearly.Amount,
		Methods:       res.PaymentMethods,
	}
}

func (s serviceImpl) observe(entry string, res PricingResult) {
	pricingResolutionsTotal.WithLabelValues(entry, strconv.FormatBool(res.FallbackUsed)).Inc()
}

func (s serviceImpl) recovered(ctx context.Context, entry string, r any) {
	orchestrationFailuresTotal.WithLabelValues(entry).Inc()
	err := fmt.Errorf("%w: %v", ErrOrchestration, r)
	s.logger.ErrorContext(ctx, "pricing pipeline failed, serving default", "entry", entry, "error", err)
}
