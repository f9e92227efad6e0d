package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Base is the currency every exchange rate in a Table is quoted against.
const Base = "USD"

// Position says on which side of the amount a currency symbol is written.
type Position int

const (
	Before Position = iota
	After
)

func (p Position) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// MarshalText renders the position as "before" or "after" in JSON payloads.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Meta is the display metadata of a currency.
type Meta struct {
	Symbol   string   `json:"symbol"`
	Position Position `json:"position"`
	Decimals int      `json:"decimals"`
}

// ErrInvalidTable is returned when reference data violates the table invariants.
var ErrInvalidTable = errors.New("invalid currency table")

// Table is the immutable reference data used for conversion and formatting:
// USD-denominated exchange rates, display metadata per currency code and
// purchasing-power-parity multipliers per country code.
//
// A Table is never modified after construction; WithRates returns a copy.
type Table struct {
	rates map[string]float64
	meta  map[string]Meta
	ppp   map[string]float64
}

// NewTable validates and copies the given maps into a Table.
func NewTable(rates map[string]float64, meta map[string]Meta, ppp map[string]float64) (*Table, error) {
	t := &Table{
		rates: make(map[string]float64, len(rates)),
		meta:  make(map[string]Meta, len(meta)),
		ppp:   make(map[string]float64, len(ppp)),
	}
	for code, r := range rates {
		if r <= 0 {
			return nil, fmt.Errorf("%w: rate for %s must be positive, got %v", ErrInvalidTable, code, r)
		}
		t.rates[strings.ToUpper(code)] = r
	}
	for code, m := range meta {
		switch m.Decimals {
		case 0, 2, 3:
		default:
			return nil, fmt.Errorf("%w: %s has unsupported decimals %d", ErrInvalidTable, code, m.Decimals)
		}
		t.meta[strings.ToUpper(code)] = m
	}
	for country, mult := range ppp {
		if mult <= 0 || mult > 1 {
			return nil, fmt.Errorf("%w: ppp multiplier for %s must be in (0,1], got %v", ErrInvalidTable, country, mult)
		}
		t.ppp[strings.ToUpper(country)] = mult
	}
	if _, ok := t.rates[Base]; !ok {
		return nil, fmt.Errorf("%w: missing %s rate", ErrInvalidTable, Base)
	}
	if _, ok := t.meta[Base]; !ok {
		return nil, fmt.Errorf("%w: missing %s metadata", ErrInvalidTable, Base)
	}
	return t, nil
}

// WithRates returns a new Table whose rates are the receiver's rates
// overridden and extended by overrides. Metadata and PPP are shared.
func (t *Table) WithRates(overrides map[string]float64) (*Table, error) {
	rates := make(map[string]float64, len(t.rates)+len(overrides))
	for code, r := range t.rates {
		rates[code] = r
	}
	for code, r := range overrides {
		rates[strings.ToUpper(code)] = r
	}
	return NewTable(rates, t.meta, t.ppp)
}

// Rate returns the number of units of code per US dollar.
func (t *Table) Rate(code string) (float64, bool) {
	r, ok := t.rates[strings.ToUpper(code)]
	return r, ok
}

// Supports reports whether code has an exchange rate.
func (t *Table) Supports(code string) bool {
	_, ok := t.Rate(code)
	return ok
}

// Meta returns the display metadata for code, falling back to USD's.
func (t *Table) Meta(code string) Meta {
	if m, ok := t.meta[strings.ToUpper(code)]; ok {
		return m
	}
	return t.meta[Base]
}

// Decimals returns the canonical number of fraction digits for code.
// Codes without metadata use 2.
func (t *Table) Decimals(code string) int {
	if m, ok := t.meta[strings.ToUpper(code)]; ok {
		return m.Decimals
	}
	return 2
}

// PPP returns the purchasing-power-parity multiplier for a country.
func (t *Table) PPP(countryCode string) (float64, bool) {
	m, ok := t.ppp[strings.ToUpper(countryCode)]
	return m, ok
}

// Codes lists every currency with an exchange rate, sorted.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
