package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 64 << 10

// Client queries an ipapi.co compatible endpoint: GET {baseURL}/{ip}/json/.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL. A nil httpClient gets one with
// the given timeout.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type lookupResponse struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup fetches and normalizes the location of ip. Every failure is
// wrapped with ErrLookup.
func (c *Client) Lookup(ctx context.Context, ip string) (CountryInfo, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ip) + "/json/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CountryInfo{}, fmt.Errorf("%w: building request: %v", ErrLookup, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return CountryInfo{}, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CountryInfo{}, fmt.Errorf("%w: unexpected status %d", ErrLookup, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return CountryInfo{}, fmt.Errorf("%w: decoding response: %v", ErrLookup, err)
	}
	if body.Error {
		return CountryInfo{}, fmt.Errorf("%w: provider error: %s", ErrLookup, body.Reason)
	}
	return body.normalize(), nil
}

func (r lookupResponse) normalize() CountryInfo {
	return CountryInfo{
		Country:     orDefault(r.CountryName, unknown),
		CountryCode: strings.ToUpper(orDefault(r.CountryCode, Default.CountryCode)),
		Currency:    strings.ToUpper(orDefault(r.Currency, Default.Currency)),
		Region:      orDefault(r.Region, unknown),
		City:        orDefault(r.City, unknown),
		Timezone:    orDefault(r.Timezone, Default.Timezone),
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
