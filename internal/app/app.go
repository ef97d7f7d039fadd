// Package app wires configuration into the runnable pipeline.
package app

import (
	"context"
	"fmt"

	"jobber/internal/ai"
	"jobber/internal/browser"
	"jobber/internal/command"
	"jobber/internal/config"
	"jobber/internal/extract"
	"jobber/internal/logging"
	"jobber/internal/pdf"
	"jobber/internal/reporter"
	"jobber/internal/scraper"
	"jobber/internal/selectors"
	"jobber/internal/store"
	"jobber/internal/tailor"

	"github.com/sirupsen/logrus"
)

type App struct {
	Config     *config.Config
	Scraper    *scraper.Scraper
	Tailor     *tailor.Tailor
	Exporter   *pdf.Exporter
	Store      store.Store
	Dispatcher *command.Dispatcher
	Log        *logrus.Logger
}

// New builds every component from cfg. Close must be called when done.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	repo, err := selectors.Load(cfg.Paths.Selectors)
	if err != nil {
		return nil, err
	}
	if !repo.HasDefault() {
		logger.Warnf("⚠️ Selector file %s has no %q entry; unmatched sites will fail", cfg.Paths.Selectors, selectors.DefaultKey)
	}

	launcher := browser.NewLauncher(browser.Options{
		Headless:        cfg.Scraper.IsHeadless(),
		ScrollAfterLoad: cfg.Scraper.ScrollAfterLoad,
		ScreenshotDir:   cfg.Paths.Screenshots,
	}, logging.Component(logger, "browser"))

	engine := extract.NewEngine(cfg.Scraper.SelectorTimeout, logging.Component(logger, "extract"))
	sc := scraper.NewScraper(repo, launcher, engine, scraper.Options{
		MaxRetries:    cfg.Scraper.MaxRetries,
		Delay:         cfg.Scraper.RetryDelay(),
		BackoffFactor: cfg.Scraper.BackoffFactor,
		NavTimeout:    cfg.Scraper.NavTimeout,
	}, logging.Component(logger, "scraper"))

	var completer ai.Completer
	if cfg.LLM.APIKey != "" {
		completer = ai.NewGroqClient(ai.Options{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			Temperature:       cfg.LLM.Temperature,
			Timeout:           cfg.LLM.Timeout,
			MaxRetries:        cfg.LLM.MaxRetries,
			Delay:             cfg.LLM.Delay,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		}, logging.Component(logger, "llm"))
	} else {
		logger.Warn("⚠️ GROQ_API_KEY not set; bullets will be ranked locally")
	}

	renderer, err := pdf.NewRenderer(cfg.PDF.Renderer, pdf.PageOptions{Format: cfg.PDF.Format, Margin: cfg.PDF.Margin})
	if err != nil {
		return nil, err
	}
	exporter := pdf.NewExporter(renderer, logging.Component(logger, "pdf"))

	tl := tailor.New(sc, completer, exporter, tailor.Options{
		ResumePath:     cfg.Paths.Resume,
		TemplatePath:   cfg.Paths.Template,
		OutputDir:      cfg.Paths.OutputDir,
		BulletsPerRole: cfg.LLM.BulletsPerRole,
		AutoPDF:        cfg.PDF.Auto,
	}, logging.Component(logger, "tailor"))

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	notifier, err := reporter.New(cfg.Telegram.Token, cfg.Telegram.ChatID, logging.Component(logger, "telegram"))
	if err != nil {
		logger.Warnf("⚠️ Telegram disabled: %v", err)
		notifier = reporter.Nop{}
	}

	dispatcher, err := command.NewDispatcher(tl, sc, exporter, st, notifier, command.Options{
		Aliases:    cfg.Aliases,
		ResumePath: cfg.Paths.Resume,
	}, logging.Component(logger, "command"))
	if err != nil {
		st.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Scraper:    sc,
		Tailor:     tl,
		Exporter:   exporter,
		Store:      st,
		Dispatcher: dispatcher,
		Log:        logger,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
