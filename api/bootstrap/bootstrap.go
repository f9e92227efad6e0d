package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbeaudouin05/localized-pricing/api/config"
	"github.com/tbeaudouin05/localized-pricing/api/database"
	"github.com/tbeaudouin05/localized-pricing/api/logging"
	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/currency"
	stripegw "github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway/stripe"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
)

var pricingService pricingapp.Service
var initOnce sync.Once
var initErr error

// Init loads config, applies exchange-rate overrides, and wires the pricing service.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if pricingService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := config.AppConfig
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	table, err := loadTable(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	plans, err := pricingapp.NewPlans(cfg.PlanMonthlyUSD, cfg.PlanYearlyUSD)
	if err != nil {
		return fmt.Errorf("failed to configure plans: %w", err)
	}

	gateway := stripegw.New(cfg.StripePublishableKey, table)

	locator := geo.NewResolver(
		geo.NewClient(cfg.GeoIPBaseURL, cfg.GeoIPTimeout, nil),
		geo.WithTimeout(cfg.GeoIPTimeout),
		geo.WithCache(geo.NewCache(cfg.GeoCacheTTL, nil)),
		geo.WithCurrencies(table),
		geo.WithLogger(logger),
	)

	svc, err := pricingapp.NewService(locator, table, plans, gateway, logger)
	if err != nil {
		return fmt.Errorf("failed to wire pricing service: %w", err)
	}
	pricingService = svc
	return nil
}

// loadTable returns the reference currency table, with rates from Postgres
// layered on top when DATABASE_URL is set.
func loadTable(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*currency.Table, error) {
	table := currency.DefaultTable()
	if cfg.DatabaseURL == "" {
		return table, nil
	}
	if err := database.Initialize(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = database.Close() }()

	overrides, err := database.LoadRateOverrides(ctx, database.GetDB())
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	table, err = table.WithRates(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply exchange rates: %w", err)
	}
	logger.Info("exchange rate overrides applied", "count", len(overrides))
	return table, nil
}

func GetPricingService() pricingapp.Service { return pricingService }

// SetPricingService allows tests to inject a stub implementation.
func SetPricingService(s pricingapp.Service) { pricingService = s }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}
