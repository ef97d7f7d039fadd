package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jobber/internal/app"
	"jobber/internal/config"
	"jobber/internal/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var configPath string

//nolint:gochecknoglobals // Cobra boilerplate
var logLevel string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "jobber",
	Short: "Scrape job postings and tailor your resume to them",
	Long: `jobber scrapes a job posting (title, location, description, company),
rewrites the work-experience bullets of your resume for it and renders the
result to HTML and PDF.`,
	SilenceUsage: true,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadApp reads config and wires the pipeline. The returned context is
// cancelled on SIGINT/SIGTERM.
func loadApp() (context.Context, *app.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load config")
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		stop()
		return nil, nil, nil, errors.Wrap(err, "init")
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Warnf("⚠️ Close failed: %v", err)
		}
		stop()
	}
	return ctx, a, cleanup, nil
}
