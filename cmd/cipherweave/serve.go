package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cipherweave/internal/engine"
	"cipherweave/internal/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var grpcPort, metricsPort int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve runs over gRPC and, when configured, from a Kafka topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("grpc-port") {
				cfg.Serve.GRPCPort = grpcPort
			}
			if cmd.Flags().Changed("metrics-port") {
				cfg.Serve.MetricsPort = metricsPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := engine.Bootstrap(ctx, cfg)
			if err != nil {
				return err
			}
			logging.L().Info("serving", "addr", e.Addr().String(), "metrics_port", cfg.Serve.MetricsPort, "source", cfg.Serve.Source)
			return e.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&grpcPort, "grpc-port", 7070, "gRPC listen port")
	cmd.Flags().IntVar(&metricsPort, "metrics-port", 9100, "Prometheus /metrics port (0 disables)")
	return cmd
}
