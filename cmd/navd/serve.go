package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/navd/pkg/config"
	"github.com/mchmarny/navd/pkg/logger"
	"github.com/mchmarny/navd/pkg/metric"
	"github.com/mchmarny/navd/pkg/server"
	"github.com/mchmarny/navd/pkg/web"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve navigation menus over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, s)
		},
	}

	cmd.Flags().Int("port", server.DefaultPort, "port to run the server on")
	cmd.Flags().Bool("watch", false, "invalidate cached navigation when its file changes")
	bindFlags(v, cmd.Flags(), "port", "watch")

	return cmd
}

func serve(ctx context.Context, s settings) error {
	slog.Info("starting navd", "version", version, "commit", commit, "date", date)

	opts, err := s.configOptions()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	cfg := config.Initialize(append(opts, config.WithBuildCounter(metric.NewBuildCounter(reg)))...)

	h := web.NewHandler(cfg, web.WithRenderCounter(metric.NewRenderCounter(reg)))

	srv := server.New(
		server.WithPort(s.Port),
		server.WithErrorLog(logger.NewLogLogger(slog.LevelError, false)),
		server.WithRegistry(reg),
		server.WithPrometheusMetrics(),
		server.WithSimpleHealth(),
		server.WithReadinessCheck(cfg),
		server.WithHandler("GET /navigation", h),
		server.WithHandler("GET /navigation/{context}", h),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gCtx)
	})

	if s.Watch && cfg.Mode() == config.LoadModeOnce {
		g.Go(func() error {
			return cfg.Watch(gCtx)
		})
	}

	return g.Wait()
}
