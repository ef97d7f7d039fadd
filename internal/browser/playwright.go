// Package browser drives a real Chromium through playwright for scraping.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobber/internal/extract"
	"jobber/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// ErrNavigationTimeout is returned when the page did not load in time.
var ErrNavigationTimeout = errors.New("page load timed out")

type Options struct {
	Headless        bool
	ScrollAfterLoad bool
	ScreenshotDir   string
}

// Launcher starts one fresh playwright Chromium per Launch call.
type Launcher struct {
	opts Options
	log  *logrus.Entry
}

func NewLauncher(opts Options, log *logrus.Entry) *Launcher {
	return &Launcher{opts: opts, log: log}
}

func (l *Launcher) Launch(ctx context.Context) (scraper.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
		Args:     stealthArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(randomUserAgent()),
		Viewport:  &playwright.Size{Width: 1366, Height: 900},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		l.log.Debugf("Could not add stealth script: %v", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}

	l.log.Debug("🌐 Browser launched")
	return &Session{
		pw:      pw,
		browser: browser,
		bctx:    bctx,
		page:    page,
		opts:    l.opts,
		shots:   NewScreenshotter(l.opts.ScreenshotDir, l.log),
		log:     l.log,
	}, nil
}

// Session owns one browser process and its single page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
	opts    Options
	shots   *Screenshotter
	log     *logrus.Entry
}

func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(millis(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w after %v: %s", ErrNavigationTimeout, timeout, url)
		}
		return err
	}

	if s.opts.ScrollAfterLoad {
		//lazy-loaded descriptions only render after scrolling
		if err := HumanScroll(ctx, s.page); err != nil {
			s.log.Debugf("Scroll failed: %v", err)
		}
	}
	return nil
}

// Contexts returns the main frame followed by the document of every iframe
// on the page. Iframes whose document cannot be reached are skipped.
func (s *Session) Contexts(ctx context.Context) ([]extract.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contexts := []extract.Context{&frameContext{frame: s.page.MainFrame(), name: "main page"}}

	iframes, err := s.page.QuerySelectorAll("iframe")
	if err != nil {
		s.log.Debugf("Could not list iframes: %v", err)
		return contexts, nil
	}
	for i, el := range iframes {
		frame, err := el.ContentFrame()
		if err != nil || frame == nil {
			continue
		}
		contexts = append(contexts, &frameContext{
			frame: frame,
			name:  fmt.Sprintf("iframe[%d] %s", i, frame.URL()),
		})
	}
	return contexts, nil
}

func (s *Session) Snapshot(name string) error {
	return s.shots.Capture(s.page, name)
}

func (s *Session) Close() error {
	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if err := s.bctx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// frameContext adapts a playwright frame to extract.Context.
type frameContext struct {
	frame playwright.Frame
	name  string
}

func (f *frameContext) Name() string { return f.name }

func (f *frameContext) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	loc := f.frame.Locator(selector).First()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
