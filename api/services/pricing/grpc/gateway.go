package grpcserver

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/protobuf/types/known/structpb"

	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
)

// HTTP routes of the pricing service.
const (
	PathPricing           = "/api/pricing"
	PathCompatiblePricing = "/api/pricing/compatible"
	PathGatewayPricing    = "/api/pricing/gateway"
)

// RegisterGateway maps the pricing RPCs to GET routes on mux. HTTP callers
// are served in-process from the raw request so the socket address and
// forwarding headers reach the app layer unchanged.
func RegisterGateway(mux *runtime.ServeMux, srv *Server) error {
	routes := []struct {
		path    string
		resolve func(context.Context, pricingapp.Request) (*structpb.Struct, error)
	}{
		{PathPricing, srv.pricing},
		{PathCompatiblePricing, srv.compatible},
		{PathGatewayPricing, srv.gateway},
	}
	for _, rt := range routes {
		resolve := rt.resolve
		err := mux.HandlePath(http.MethodGet, rt.path, func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			ctx := r.Context()
			_, outbound := runtime.MarshalerForRequest(mux, r)
			resp, err := resolve(ctx, pricingapp.RequestFromHTTP(r))
			if err != nil {
				runtime.HTTPError(ctx, mux, outbound, w, r, err)
				return
			}
			w.Header().Set("Cache-Control", "no-store")
			ctx = runtime.NewServerMetadataContext(ctx, runtime.ServerMetadata{})
			runtime.ForwardResponseMessage(ctx, mux, outbound, w, r, resp)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
