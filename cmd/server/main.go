package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/tbeaudouin05/localized-pricing/api/bootstrap"
	"github.com/tbeaudouin05/localized-pricing/api/config"
	"github.com/tbeaudouin05/localized-pricing/api/router"
	grpcserver "github.com/tbeaudouin05/localized-pricing/api/services/pricing/grpc"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("pricing service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Ensure(); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	cfg := config.AppConfig
	logger := slog.Default()
	svc := bootstrap.GetPricingService()

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.GeoIPTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcserver.UnaryLogger(logger)))
	grpcserver.Register(grpcServer, grpcserver.New(svc))
	grpcListener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc on %s: %w", cfg.GRPCPort, err)
	}

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("grpc server starting", "address", grpcListener.Addr().String())
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErr error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("http shutdown: %w", err))
		}
		grpcServer.GracefulStop()
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("pricing service stopped")
	return nil
}
