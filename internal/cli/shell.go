package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/app/bootstrap"
	"github.com/wolfman30/mhrs-booking/internal/console"
)

func newShellCommand(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			addr := a.cfg.MetricsAddr
			if metricsAddr != "" {
				addr = metricsAddr
			}
			if addr != "" {
				a.registry.MustRegister(collectors.NewGoCollector())
				srv, err := bootstrap.StartMetricsServer(addr, a.registry, a.logger)
				if err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						a.logger.Warn("metrics server shutdown failed", "error", err)
					}
				}()
			}

			sh := console.NewShell(console.Deps{
				Client:   a.client,
				Store:    a.store,
				PageSize: a.cfg.AppointmentPageSize,
				Logger:   a.logger,
			}, a.env.In, a.out())
			return sh.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve client metrics on this address while the shell runs")

	return cmd
}
