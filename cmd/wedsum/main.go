package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
	"github.com/MikeSquared-Agency/wedsum/internal/config"
	"github.com/MikeSquared-Agency/wedsum/internal/extractor"
	"github.com/MikeSquared-Agency/wedsum/internal/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "wedsum",
		Short:        "Extract confirmed wedding details from exported WhatsApp chats",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newParseCmd())

	return rootCmd
}

// loadConfig reads the configuration and installs the JSON logger on w.
func loadConfig(w io.Writer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel, w)
	return cfg, nil
}

func newAnalyzer(cfg config.Config, m *metrics.Metrics) *analyzer.Analyzer {
	return analyzer.New(analyzer.Options{
		Provider:           cfg.Provider,
		Model:              cfg.Model(),
		APIKey:             cfg.APIKey(),
		Mode:               cfg.Mode,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		ExcerptChars:       cfg.ExcerptChars,
		MinTranscriptChars: cfg.MinTranscriptChars,
		ReleaseMemory:      cfg.ReleaseMemory,
	}, extractor.New(slog.Default()), slog.Default()).WithMetrics(m)
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
