package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// ErrInvalidConfig is returned when an environment variable is missing or malformed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration
type Config struct {
	// Server ports
	HTTPPort string
	GRPCPort string
	LogLevel string

	// Geolocation provider
	GeoIPBaseURL string
	GeoIPTimeout time.Duration
	GeoCacheTTL  time.Duration

	// Optional: Postgres holding exchange-rate overrides
	DatabaseURL string

	// Optional: key handed to the browser for Stripe Checkout
	StripePublishableKey string

	// Plan prices in USD
	PlanMonthlyUSD float64
	PlanYearlyUSD  float64

	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
}

var envVars = []struct {
	name     string
	envVar   string
	display  string
	required bool
	def      string
}{
	{"HTTPPort", "PORT", "HTTP Port", false, "8080"},
	{"GRPCPort", "GRPC_PORT", "gRPC Port", false, "50051"},
	{"LogLevel", "LOG_LEVEL", "Log Level", false, "info"},
	{"GeoIPBaseURL", "GEOIP_BASE_URL", "GeoIP Base URL", false, "https://ipapi.co"},
	{"GeoIPTimeout", "GEOIP_TIMEOUT", "GeoIP Timeout", false, "5s"},
	{"GeoCacheTTL", "GEO_CACHE_TTL", "Geolocation Cache TTL", false, "24h"},
	{"DatabaseURL", "DATABASE_URL", "Database URL", false, ""},
	{"StripePublishableKey", "STRIPE_PUBLISHABLE_KEY", "Stripe Publishable Key", false, ""},
	{"PlanMonthlyUSD", "PLAN_MONTHLY_USD", "Monthly Plan Price (USD)", false, "6"},
	{"PlanYearlyUSD", "PLAN_YEARLY_USD", "Yearly Plan Price (USD)", false, "60"},
	{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false, ""},
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		currentDir = filepath.Dir(currentDir)
	}

	for _, v := range envVars {
		value := os.Getenv(v.envVar)
		if value == "" {
			if v.required {
				return nil, fmt.Errorf("%w: missing required environment variable: %s", ErrInvalidConfig, v.display)
			}
			value = v.def
		}
		if value == "" {
			continue
		}
		field := reflect.ValueOf(config).Elem().FieldByName(v.name)
		if err := setField(field, value); err != nil {
			return nil, fmt.Errorf("%w: %s (%s=%q): %v", ErrInvalidConfig, v.display, v.envVar, value, err)
		}
	}

	if config.PlanMonthlyUSD <= 0 || config.PlanYearlyUSD <= 0 {
		return nil, fmt.Errorf("%w: plan prices must be positive", ErrInvalidConfig)
	}
	if config.GeoIPTimeout <= 0 {
		return nil, fmt.Errorf("%w: GEOIP_TIMEOUT must be positive", ErrInvalidConfig)
	}

	return config, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func setField(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		field.SetString(value)
	}
	return nil
}
