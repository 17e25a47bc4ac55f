package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/server"
)

func newServeCmd(st *state) *cobra.Command {
	var addr, grpcAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Run the HTTP API and, when a gRPC address is configured, the gRPC health service. " +
			"The server stops gracefully on SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := st.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if grpcAddr != "" {
				cfg.Server.GRPCAddr = grpcAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := st.logger.Logger
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			cliLogger := logging.ComponentLogger(logger, "cli")
			cliLogger.Info().
				Str("addr", cfg.Server.Addr).
				Str("grpc_addr", cfg.Server.GRPCAddr).
				Bool("database", a.db != nil).
				Msg("starting carboncam")
			return server.New(a.svc, a.metrics, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC health listen address (overrides config)")
	return cmd
}
