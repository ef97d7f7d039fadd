package pdf

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightRenderer struct {
	opts PageOptions
}

func NewPlaywrightRenderer(opts PageOptions) *PlaywrightRenderer {
	return &PlaywrightRenderer{opts: opts}
}

func (r *PlaywrightRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	return page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String(r.opts.Format),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String(r.opts.Margin),
			Bottom: playwright.String(r.opts.Margin),
			Left:   playwright.String(r.opts.Margin),
			Right:  playwright.String(r.opts.Margin),
		},
	})
}
