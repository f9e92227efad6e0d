package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/currency"
	stripegw "github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway/stripe"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// newTestServer wires the real pipeline with a header-only geolocation
// resolver so requests never leave the process.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	table := currency.DefaultTable()
	locator := geo.NewResolver(nil, geo.WithCurrencies(table), geo.WithLogger(discardLogger()))
	svc, err := pricingapp.NewService(locator, table, pricingapp.DefaultPlans(), stripegw.New("pk_test_router", table), discardLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(New(svc, discardLogger()))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, headers map[string]string) map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPricingHTTP_IndiaFromCDNHeader(t *testing.T) {
	ts := newTestServer(t)
	body := getJSON(t, ts.URL+"/api/pricing", map[string]string{"Cf-Ipcountry": "IN"})

	location := body["location"].(map[string]any)
	assert.Equal(t, "IN", location["countryCode"])
	assert.Equal(t, "INR", location["currency"])

	pricing := body["pricing"].(map[string]any)
	assert.Equal(t, "INR", pricing["currency"])
	monthly := pricing["monthly"].(map[string]any)
	assert.Equal(t, 125.0, monthly["amount"])
	assert.Equal(t, "₹125", monthly["formatted"])

	methods := body["paymentMethods"].(map[string]any)
	assert.Equal(t, true, methods["upi"])
	assert.Equal(t, false, body["fallbackUsed"])
}

func TestPricingHTTP_NoSignalsYieldsUSDefault(t *testing.T) {
	ts := newTestServer(t)
	body := getJSON(t, ts.URL+"/api/pricing", nil)

	location := body["location"].(map[string]any)
	assert.Equal(t, "US", location["countryCode"])
	pricing := body["pricing"].(map[string]any)
	assert.Equal(t, "USD", pricing["currency"])
	assert.Equal(t, "$6.00", pricing["monthly"].(map[string]any)["formatted"])
	assert.Equal(t, "US", body["paymentBucket"])
}

func TestCompatiblePricingHTTP_FallsBackForUnsupportedCurrency(t *testing.T) {
	ts := newTestServer(t)
	body := getJSON(t, ts.URL+"/api/pricing/compatible", map[string]string{"Cf-Ipcountry": "JP"})

	assert.Equal(t, true, body["fallbackUsed"])
	assert.Equal(t, "JPY", body["originalCurrency"])
	assert.Equal(t, "USD", body["pricing"].(map[string]any)["currency"])
	assert.Equal(t, "JP", body["location"].(map[string]any)["countryCode"])
}

func TestGatewayPricingHTTP_AcceptLanguage(t *testing.T) {
	ts := newTestServer(t)
	body := getJSON(t, ts.URL+"/api/pricing/gateway", map[string]string{"Accept-Language": "de-DE,de;q=0.9,en;q=0.8"})

	assert.Equal(t, "EUR", body["pricing"].(map[string]any)["currency"])
	gateway := body["gateway"].(map[string]any)
	assert.Equal(t, "stripe", gateway["provider"])
	assert.Equal(t, "eur", gateway["currency"])
	assert.Equal(t, "pk_test_router", gateway["publishableKey"])
	assert.Equal(t, 552.0, gateway["monthlyAmount"])
	assert.Equal(t, []any{"card"}, gateway["paymentMethodTypes"])
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	body := getJSON(t, ts.URL+PathHealth, nil)
	assert.Equal(t, "ok", body["status"])

	getJSON(t, ts.URL+"/api/pricing", nil)
	resp, err := http.Get(ts.URL + PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pricing_resolutions_total")
	assert.Contains(t, string(raw), "pricing_geolocation_resolutions_total")
}

func TestHealthWithoutService(t *testing.T) {
	ts := httptest.NewServer(New(nil, discardLogger()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + PathHealth)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/api/pricing")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
