package config

import (
	"errors"
	"fmt"
	"strings"
)

// ProdDbId is the identifier for the production database
const ProdDbId = "pricing-prod"

// ErrProdDatabase guards tests from touching production data.
var ErrProdDatabase = errors.New("refusing to use production database")

// CheckNotProdDB returns an error if the configured database URL contains ProdDbId.
// It should be called at the start of any test that interacts with the database.
func CheckNotProdDB(cfg *Config) error {
	if cfg == nil || cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: DatabaseURL is not configured", ErrInvalidConfig)
	}
	if strings.Contains(cfg.DatabaseURL, ProdDbId) {
		return fmt.Errorf("%w: DatabaseURL contains production identifier %s", ErrProdDatabase, ProdDbId)
	}
	return nil
}
