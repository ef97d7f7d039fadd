package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobber/internal/extract"
	"jobber/internal/selectors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSelectorSet means the resolved domain has no selectors, not even
	// the default set. It is a configuration defect and is never retried.
	ErrNoSelectorSet = errors.New("no selector set configured")
	// ErrEmptyDescription fails an attempt whose description did not resolve.
	ErrEmptyDescription = errors.New("job description not found")
	// ErrRetriesExhausted is returned once every attempt failed.
	ErrRetriesExhausted = errors.New("all scrape attempts failed")
)

type Options struct {
	MaxRetries int
	Delay      time.Duration
	// BackoffFactor multiplies the delay after each failed attempt.
	// 1 keeps the delay fixed.
	BackoffFactor float64
	NavTimeout    time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxRetries:    3,
		Delay:         2 * time.Second,
		BackoffFactor: 1,
		NavTimeout:    10 * time.Second,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Scraper struct {
	repo     *selectors.Repository
	launcher Launcher
	engine   *extract.Engine
	opts     Options
	sleep    SleepFunc
	log      *logrus.Entry
}

func NewScraper(repo *selectors.Repository, launcher Launcher, engine *extract.Engine, opts Options, log *logrus.Entry) *Scraper {
	def := DefaultOptions()
	if opts.MaxRetries < 1 {
		opts.MaxRetries = def.MaxRetries
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.BackoffFactor < 1 {
		opts.BackoffFactor = 1
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = def.NavTimeout
	}
	return &Scraper{
		repo:     repo,
		launcher: launcher,
		engine:   engine,
		opts:     opts,
		sleep:    sleepCtx,
		log:      log,
	}
}

// WithSleep replaces the inter-attempt sleeper.
func (s *Scraper) WithSleep(fn SleepFunc) *Scraper {
	s.sleep = fn
	return s
}

// Options returns the effective retry and timeout settings.
func (s *Scraper) Options() Options {
	return s.opts
}

// Scrape loads url in a fresh browser per attempt and extracts the posting.
// On failure the returned posting holds sentinel values and the error wraps
// ErrNoSelectorSet, ErrRetriesExhausted or the context error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (JobPosting, error) {
	log := s.log.WithField("url", rawURL)

	key := s.repo.Resolve(rawURL)
	fields, ok := s.repo.Lookup(key)
	if !ok {
		log.WithField("domain_key", key).Error("❌ No selector list found")
		return EmptyPosting(rawURL), fmt.Errorf("domain key %q: %w", key, ErrNoSelectorSet)
	}
	log = log.WithField("domain_key", key)
	log.Info("🔍 Scraping job posting...")

	var lastErr error
	delay := s.opts.Delay
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		alog := log.WithField("attempt", attempt)

		posting, err := s.attempt(ctx, rawURL, fields, alog)
		if err == nil {
			alog.Infof("✅ Scraped %q @ %s", extract.Ellipsis(posting.Title, 40), posting.Company)
			return posting, nil
		}
		lastErr = err
		alog.Warnf("⚠️ Attempt failed: %v", err)

		if ctx.Err() != nil {
			return EmptyPosting(rawURL), ctx.Err()
		}
		if attempt < s.opts.MaxRetries {
			alog.Debugf("⏳ Retrying in %v", delay)
			if err := s.sleep(ctx, delay); err != nil {
				return EmptyPosting(rawURL), err
			}
			delay = time.Duration(float64(delay) * s.opts.BackoffFactor)
		}
	}

	log.Errorf("❌ All %d attempts to scrape job posting have failed", s.opts.MaxRetries)
	return EmptyPosting(rawURL), fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, s.opts.MaxRetries, lastErr)
}

// attempt runs one launch-navigate-extract cycle. The session is closed on
// every path, including panics, which become attempt errors.
func (s *Scraper) attempt(ctx context.Context, rawURL string, fields selectors.FieldSelectors, log *logrus.Entry) (posting JobPosting, err error) {
	posting = EmptyPosting(rawURL)

	session, err := s.launcher.Launch(ctx)
	if err != nil {
		return posting, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
		}
		if err != nil {
			if snap, ok := session.(Snapshotter); ok {
				if serr := snap.Snapshot(snapshotName(rawURL)); serr != nil {
					log.Debugf("Could not capture screenshot: %v", serr)
				}
			}
		}
		if cerr := session.Close(); cerr != nil {
			log.Warnf("⚠️ Failed to close browser cleanly: %v", cerr)
		}
	}()

	if err := session.Navigate(ctx, rawURL, s.opts.NavTimeout); err != nil {
		return posting, fmt.Errorf("navigate: %w", err)
	}

	contexts, err := session.Contexts(ctx)
	if err != nil {
		return posting, fmt.Errorf("collect frames: %w", err)
	}
	log.Debugf("📄 Searching %d contexts", len(contexts))

	//fields never fail on their own; a miss is the sentinel. Only a
	//cancelled parent aborts the attempt.
	var title, location, description, company string
	g, gctx := errgroup.WithContext(ctx)
	extractInto := func(dst *string, field string, list []string) {
		g.Go(func() error {
			*dst = s.engine.ExtractField(gctx, field, contexts, list)
			return gctx.Err()
		})
	}
	extractInto(&title, selectors.FieldTitle, fields[selectors.FieldTitle])
	extractInto(&location, selectors.FieldLocation, fields[selectors.FieldLocation])
	extractInto(&description, selectors.FieldDescription, fields[selectors.FieldDescription])
	company = extract.Sentinel
	if list := fields[selectors.FieldCompany]; len(list) > 0 {
		extractInto(&company, selectors.FieldCompany, list)
	}
	if err := g.Wait(); err != nil {
		return posting, fmt.Errorf("extract fields: %w", err)
	}

	if description == extract.Sentinel {
		return posting, ErrEmptyDescription
	}

	//structured company field wins, inference is the fallback
	if company == extract.Sentinel {
		company = extract.InferCompany(description)
	}

	posting.Title = title
	posting.Location = location
	posting.Description = description
	posting.Company = company
	return posting, nil
}

func snapshotName(rawURL string) string {
	host := "posting"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return "scrape-failed-" + strings.NewReplacer(".", "-", ":", "-").Replace(host)
}
