package grpcserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
)

const ServiceName = "pricing.v1.PricingService"

// PricingServiceServer is the gRPC surface of the pricing service. Requests
// carry no body: the caller is described by metadata and the peer address.
type PricingServiceServer interface {
	ResolvePricing(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ResolveCompatiblePricing(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ResolveGatewayPricing(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Server adapts the pricing app service to gRPC and HTTP.
type Server struct {
	svc pricingapp.Service
}

func New(svc pricingapp.Service) *Server { return &Server{svc: svc} }

func (s *Server) ResolvePricing(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.pricing(ctx, requestFromContext(ctx))
}

func (s *Server) ResolveCompatiblePricing(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.compatible(ctx, requestFromContext(ctx))
}

func (s *Server) ResolveGatewayPricing(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.gateway(ctx, requestFromContext(ctx))
}

func (s *Server) pricing(ctx context.Context, req pricingapp.Request) (*structpb.Struct, error) {
	return toStruct(s.svc.ResolvePricing(ctx, req))
}

func (s *Server) compatible(ctx context.Context, req pricingapp.Request) (*structpb.Struct, error) {
	return toStruct(s.svc.ResolveCompatiblePricing(ctx, req))
}

func (s *Server) gateway(ctx context.Context, req pricingapp.Request) (*structpb.Struct, error) {
	return toStruct(s.svc.ResolveGatewayPricing(ctx, req))
}

// toStruct converts a result into a Struct using its JSON field names.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode pricing result: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode pricing result: %v", err)
	}
	return out, nil
}

// requestFromContext rebuilds the client-facing headers from incoming
// metadata and takes the socket address from the peer.
func requestFromContext(ctx context.Context) pricingapp.Request {
	req := pricingapp.Request{Header: http.Header{}}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for k, vs := range md {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		req.RemoteAddr = p.Addr.String()
	}
	return req
}

// Register attaches the pricing service to a gRPC server.
func Register(gs *grpc.Server, srv PricingServiceServer) {
	gs.RegisterService(&ServiceDesc, srv)
}

// UnaryLogger logs each unary call with its status code and latency.
func UnaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start))
		return resp, err
	}
}

// ServiceDesc describes pricing.v1.PricingService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ResolvePricing",
			Handler: unaryHandler("ResolvePricing", func(s PricingServiceServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return s.ResolvePricing(ctx, in)
			}),
		},
		{
			MethodName: "ResolveCompatiblePricing",
			Handler: unaryHandler("ResolveCompatiblePricing", func(s PricingServiceServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return s.ResolveCompatiblePricing(ctx, in)
			}),
		},
		{
			MethodName: "ResolveGatewayPricing",
			Handler: unaryHandler("ResolveGatewayPricing", func(s PricingServiceServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return s.ResolveGatewayPricing(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

type unaryMethod func(PricingServiceServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

// methodHandler matches grpc.MethodDesc.Handler.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unaryHandler(name string, call unaryMethod) methodHandler {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PricingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PricingServiceServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}
