package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bootstrap "github.com/tbeaudouin05/localized-pricing/api/bootstrap"
	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
)

type stubPricingService struct{ pricingapp.Service }

func (stubPricingService) ResolvePricing(context.Context, pricingapp.Request) pricingapp.PricingResult {
	res := pricingapp.PricingResult{Location: geo.Default}
	res.Pricing.Currency = "USD"
	return res
}

func TestNewRouter_ServesBootstrappedService(t *testing.T) {
	prev := bootstrap.GetPricingService()
	t.Cleanup(func() { bootstrap.SetPricingService(prev) })
	bootstrap.SetPricingService(stubPricingService{})

	ts := httptest.NewServer(NewRouter())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/pricing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "USD", body["pricing"].(map[string]any)["currency"])

	health, err := http.Get(ts.URL + PathHealth)
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
