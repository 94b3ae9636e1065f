package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/wedsum/internal/api"
	"github.com/MikeSquared-Agency/wedsum/internal/config"
	"github.com/MikeSquared-Agency/wedsum/internal/hermes"
	"github.com/MikeSquared-Agency/wedsum/internal/metrics"
	"github.com/MikeSquared-Agency/wedsum/internal/slack"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	slog.Info("wedsum starting", "port", cfg.Port, "provider", cfg.Provider, "mode", cfg.Mode)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a := newAnalyzer(cfg, metrics.New(reg))

	if cfg.APIKey() == "" {
		slog.Warn("no server-side API key configured, uploads must supply one", "provider", cfg.Provider)
	}

	// NATS/Hermes (optional)
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			return err
		}
		defer hermesClient.Close()
		a.WithEvents(hermesClient)
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Slack poster (optional)
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		a.WithPoster(slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default()))
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	srv := api.NewServer(cfg.Port, a, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), slog.Default())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("wedsum ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server error", "error", err)
			return err
		}
	}

	slog.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	slog.Info("wedsum stopped")
	return nil
}
