package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cipherweave/internal/config"
	"cipherweave/internal/telemetry"
	"cipherweave/internal/transport"
	"cipherweave/source/kafka"
)

func Bootstrap(ctx context.Context, cfg config.Config, opts ...ServiceOption) (*Engine, error) {
	svc := NewService(cfg, opts...)

	// 1. transport server
	srv, err := transport.StartServer(cfg.Serve.GRPCPort, rpcHandler{svc: svc})
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 2. optional source
	var src kafka.Adapter
	switch cfg.Serve.Source {
	case "":
	case "kafka":
		kc, err := config.LoadSourceConfig(cfg.Serve.SourceConfig)
		if err != nil {
			srv.Stop()
			return nil, fmt.Errorf("source: %w", err)
		}
		if src, err = kafka.NewAdapter(kc.Driver); err != nil {
			srv.Stop()
			return nil, fmt.Errorf("source: %w", err)
		}
		if err := src.Configure(kc); err != nil {
			srv.Stop()
			return nil, fmt.Errorf("source: %w", err)
		}
	default:
		srv.Stop()
		return nil, fmt.Errorf("source: unknown source %q", cfg.Serve.Source)
	}

	// 3. metrics
	metrics := telemetry.Expose(cfg.Serve.MetricsPort)

	return &Engine{
		svc:       svc,
		transport: srv,
		source:    src,
		metrics:   metrics,
		ciphers:   cfg.Serve.Ciphers,
	}, nil
}

// shutdownMetrics stops the /metrics listener if one was started.
func shutdownMetrics(ctx context.Context, s *http.Server) {
	if s == nil {
		return
	}
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = s.Close()
	}
}
