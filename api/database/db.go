package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

var db *sql.DB

// ErrInvalidRate is returned for override rows that cannot be used as rates.
var ErrInvalidRate = errors.New("invalid exchange rate row")

// Initialize connects to Postgres and verifies the connection.
func Initialize(ctx context.Context, dsn string) error {
	var err error
	db, err = sql.Open("postgres", withDisablePreparedStatements(dsn))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// The pool is only used for the startup read.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return nil
}

// withDisablePreparedStatements appends disable_prepared_statements=true and binary_parameters=yes to the DSN if not present.
// This nudges lib/pq to avoid server-side prepared statements and binary mode, which can break with PgBouncer transaction pooling.
func withDisablePreparedStatements(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "disable_prepared_statements=") || strings.Contains(lower, "prefer_simple_protocol=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	extras := []string{"disable_prepared_statements=true"}
	if !strings.Contains(lower, "binary_parameters=") {
		extras = append(extras, "binary_parameters=yes")
	}
	return dsn + sep + strings.Join(extras, "&")
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// Close releases the connection pool, if any.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

const rateOverridesQuery = `SELECT currency_code, usd_rate FROM exchange_rate`

// RateOverride is one row of the exchange_rate table: units of the
// currency per 1 USD.
type RateOverride struct {
	CurrencyCode string
	USDRate      float64
}

// LoadRateOverrides reads exchange-rate overrides keyed by uppercase ISO code.
func LoadRateOverrides(ctx context.Context, conn *sql.DB) (map[string]float64, error) {
	rows, err := conn.QueryContext(ctx, rateOverridesQuery)
	if err != nil {
		return nil, fmt.Errorf("query exchange rates: %w", err)
	}
	defer rows.Close()

	var overrides []RateOverride
	for rows.Next() {
		var r RateOverride
		if err := rows.Scan(&r.CurrencyCode, &r.USDRate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		overrides = append(overrides, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchange rates: %w", err)
	}
	return collectOverrides(overrides)
}

func collectOverrides(rows []RateOverride) (map[string]float64, error) {
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		code := strings.ToUpper(strings.TrimSpace(r.CurrencyCode))
		if len(code) != 3 {
			return nil, fmt.Errorf("%w: currency code %q", ErrInvalidRate, r.CurrencyCode)
		}
		if r.USDRate <= 0 {
			return nil, fmt.Errorf("%w: %s rate %v", ErrInvalidRate, code, r.USDRate)
		}
		out[code] = r.USDRate
	}
	return out, nil
}
