package geo

import (
	"context"
	"errors"
)

// CountryInfo is where a request is believed to come from.
type CountryInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Currency    string `json:"currency"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
}

// Default is returned when nothing better is known about a request.
var Default = CountryInfo{
	Country:     "United States",
	CountryCode: "US",
	Currency:    "USD",
	Region:      unknown,
	City:        unknown,
	Timezone:    "UTC",
}

const unknown = "Unknown"

// ErrLookup wraps every failure of an external IP lookup.
var ErrLookup = errors.New("geolocation lookup failed")

// Lookup resolves a public IP address through an external service.
type Lookup interface {
	Lookup(ctx context.Context, ip string) (CountryInfo, error)
}
