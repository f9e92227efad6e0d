package grpcserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
	gw "github.com/tbeaudouin05/localized-pricing/api/services/pricing/gateway"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/geo"
	"github.com/tbeaudouin05/localized-pricing/api/services/pricing/payment"
)

type fakeService struct {
	mu       sync.Mutex
	requests []pricingapp.Request
}

func (f *fakeService) record(req pricingapp.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeService) last() pricingapp.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func result(code string, fallback bool) pricingapp.PricingResult {
	res := pricingapp.PricingResult{
		Location:       geo.Default,
		PaymentMethods: payment.MethodSet{Card: true},
		PaymentBucket:  payment.BucketUS,
		FallbackUsed:   fallback,
	}
	res.Pricing.Currency = code
	res.Pricing.Monthly = pricingapp.PlanPrice{PlanID: "monthly", Amount: 6, Formatted: "$6.00"}
	if fallback {
		res.OriginalCurrency = "THB"
	}
	return res
}

func (f *fakeService) ResolvePricing(_ context.Context, req pricingapp.Request) pricingapp.PricingResult {
	f.record(req)
	return result("USD", false)
}

func (f *fakeService) ResolveCompatiblePricing(_ context.Context, req pricingapp.Request) pricingapp.PricingResult {
	f.record(req)
	return result("USD", true)
}

func (f *fakeService) ResolveGatewayPricing(_ context.Context, req pricingapp.Request) pricingapp.GatewayPricingResult {
	f.record(req)
	return pricingapp.GatewayPricingResult{
		PricingResult: result("USD", false),
		Gateway:       gw.Config{Provider: "stripe", Currency: "usd", MonthlyAmount: 600, YearlyAmount: 6000, PaymentMethodTypes: []string{"card"}},
	}
}

func dialBufconn(t *testing.T, svc pricingapp.Service) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))))
	Register(gs, New(svc))
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPC_ResolvePricingForwardsMetadata(t *testing.T) {
	svc := &fakeService{}
	conn := dialBufconn(t, svc)

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		"x-forwarded-for", "203.0.113.9",
		"cf-ipcountry", "DE")
	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/ResolvePricing", &emptypb.Empty{}, out))

	pricing := out.GetFields()["pricing"].GetStructValue()
	assert.Equal(t, "USD", pricing.GetFields()["currency"].GetStringValue())
	assert.Equal(t, "US", out.GetFields()["location"].GetStructValue().GetFields()["countryCode"].GetStringValue())
	assert.Equal(t, "US", out.GetFields()["paymentBucket"].GetStringValue())

	req := svc.last()
	assert.Equal(t, "DE", req.Header.Get("Cf-Ipcountry"))
	assert.Equal(t, "203.0.113.9", pricingapp.ClientIP(req))
	assert.NotEmpty(t, req.RemoteAddr)
}

func TestGRPC_ResolveCompatibleAndGateway(t *testing.T) {
	conn := dialBufconn(t, &fakeService{})
	ctx := context.Background()

	compat := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/ResolveCompatiblePricing", &emptypb.Empty{}, compat))
	assert.True(t, compat.GetFields()["fallbackUsed"].GetBoolValue())
	assert.Equal(t, "THB", compat.GetFields()["originalCurrency"].GetStringValue())

	gateway := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/ResolveGatewayPricing", &emptypb.Empty{}, gateway))
	cfg := gateway.GetFields()["gateway"].GetStructValue().GetFields()
	assert.Equal(t, "usd", cfg["currency"].GetStringValue())
	assert.Equal(t, 600.0, cfg["monthlyAmount"].GetNumberValue())
	// Embedded result fields are flattened next to the gateway block.
	assert.NotNil(t, gateway.GetFields()["pricing"])
}

func newGatewayServer(t *testing.T, svc pricingapp.Service) *httptest.Server {
	t.Helper()
	mux := runtime.NewServeMux()
	require.NoError(t, RegisterGateway(mux, New(svc)))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_RoutesServeJSON(t *testing.T) {
	ts := newGatewayServer(t, &fakeService{})

	for _, path := range []string{PathPricing, PathCompatiblePricing, PathGatewayPricing} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, "pricing")
			assert.Contains(t, body, "location")
			assert.Contains(t, body, "paymentMethods")
		})
	}
}

func TestHTTP_PassesRawRequest(t *testing.T) {
	svc := &fakeService{}
	ts := newGatewayServer(t, svc)

	req, err := http.NewRequest(http.MethodGet, ts.URL+PathPricing, nil)
	require.NoError(t, err)
	req.Header.Set("X-Real-Ip", "198.51.100.4")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	got := svc.last()
	assert.Equal(t, "198.51.100.4", pricingapp.ClientIP(got))
	assert.Equal(t, "en-GB,en;q=0.9", got.Header.Get("Accept-Language"))
	assert.Contains(t, got.RemoteAddr, "127.0.0.1")
}

func TestHTTP_UnknownRouteIsNotFound(t *testing.T) {
	ts := newGatewayServer(t, &fakeService{})
	resp, err := http.Get(ts.URL + "/api/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToStruct_UsesJSONFieldNames(t *testing.T) {
	s, err := toStruct(result("EUR", false))
	require.NoError(t, err)
	fields := s.GetFields()
	assert.Contains(t, fields, "fallbackUsed")
	assert.NotContains(t, fields, "originalCurrency")
	methods := fields["paymentMethods"].GetStructValue().GetFields()
	assert.True(t, methods["card"].GetBoolValue())
	assert.False(t, methods["upi"].GetBoolValue())
}

func TestServiceDesc_HandlersDispatch(t *testing.T) {
	srv := New(&fakeService{})
	dec := func(v any) error { return nil }
	intercepted := 0
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		intercepted++
		assert.Equal(t, "/"+ServiceName+"/", info.FullMethod[:len(ServiceName)+2])
		return handler(ctx, req)
	}

	require.Len(t, ServiceDesc.Methods, 3)
	for _, m := range ServiceDesc.Methods {
		t.Run(m.MethodName, func(t *testing.T) {
			out, err := m.Handler(srv, context.Background(), dec, nil)
			require.NoError(t, err)
			assert.Contains(t, out.(*structpb.Struct).GetFields(), "pricing")

			out, err = m.Handler(srv, context.Background(), dec, interceptor)
			require.NoError(t, err)
			assert.Contains(t, out.(*structpb.Struct).GetFields(), "pricing")
		})
	}
	assert.Equal(t, 3, intercepted)
}
