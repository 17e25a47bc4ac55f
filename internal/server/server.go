// Package server exposes the calculation service over HTTP and reports
// liveness over the gRPC health protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/metrics"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

// HeaderScope carries the organization scope set by the upstream identity layer.
const HeaderScope = "X-Carboncam-Org-Id"

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-Id"

// Server serves the HTTP API and, when configured, the gRPC health service.
type Server struct {
	svc     *service.Service
	cfg     config.ServerConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger

	health *health.Server
}

// New creates a Server for svc.
func New(svc *service.Service, m *metrics.Metrics, logger zerolog.Logger) *Server {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Server{
		svc:     svc,
		cfg:     svc.Config().Server,
		metrics: m,
		logger:  logging.ComponentLogger(logger, "server"),
		health:  health.NewServer(),
	}
}

// Health returns the gRPC health server so callers can flip serving status.
func (s *Server) Health() *health.Server {
	return s.health
}

// Run serves until ctx is done, then shuts down gracefully within the
// configured timeout. Listener failures are returned immediately.
func (s *Server) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	var grpcLn net.Listener
	if s.cfg.GRPCAddr != "" {
		grpcLn, err = net.Listen("tcp", s.cfg.GRPCAddr)
		if err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.cfg.GRPCAddr, err)
		}
	}
	return s.Serve(ctx, httpLn, grpcLn)
}

// Serve is Run on existing listeners. grpcLn may be nil.
func (s *Server) Serve(ctx context.Context, httpLn, grpcLn net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 2)
	go func() {
		s.logger.Info().Str("addr", httpLn.Addr().String()).Msg("HTTP server listening")
		if err := httpServer.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpc.Server
	if grpcLn != nil {
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, s.health)
		go func() {
			s.logger.Info().Str("addr", grpcLn.Addr().String()).Msg("gRPC health server listening")
			if err := grpcServer.Serve(grpcLn); err != nil {
				errChan <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	s.health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP shutdown failed")
		if runErr == nil {
			runErr = err
		}
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return runErr
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 10 * time.Second
}

// Handler returns the HTTP API with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /v1/calculate", s.handleCalculate)
	mux.HandleFunc("POST /v1/batch", s.handleBatch)
	mux.HandleFunc("GET /v1/batch/template", s.handleBatchTemplate)

	mux.HandleFunc("GET /v1/machines", s.handleListMachines)
	mux.HandleFunc("GET /v1/machines/{id}", s.handleGetMachine)
	mux.Handle("POST /v1/machines", requireScope(http.HandlerFunc(s.handleCreateMachine)))
	mux.Handle("PUT /v1/machines/{id}", requireScope(http.HandlerFunc(s.handleUpdateMachine)))
	mux.Handle("DELETE /v1/machines/{id}", requireScope(http.HandlerFunc(s.handleDeleteMachine)))

	mux.HandleFunc("GET /v1/materials", s.handleListMaterials)
	mux.HandleFunc("GET /v1/materials/{id}", s.handleGetMaterial)
	mux.Handle("POST /v1/materials", requireScope(http.HandlerFunc(s.handleCreateMaterial)))
	mux.Handle("PUT /v1/materials/{id}", requireScope(http.HandlerFunc(s.handleUpdateMaterial)))
	mux.Handle("DELETE /v1/materials/{id}", requireScope(http.HandlerFunc(s.handleDeleteMaterial)))

	mux.Handle("GET /v1/results", requireScope(http.HandlerFunc(s.handleListResults)))
	mux.Handle("GET /v1/results/{id}", requireScope(http.HandlerFunc(s.handleGetResult)))

	return s.requestID(s.cors(s.logRequests(mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
