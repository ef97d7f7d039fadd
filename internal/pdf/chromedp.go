package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// paperSizes in inches.
var paperSizes = map[string][2]float64{
	"letter": {8.5, 11},
	"legal":  {8.5, 14},
	"a4":     {8.27, 11.69},
}

type ChromedpRenderer struct {
	opts PageOptions
}

func NewChromedpRenderer(opts PageOptions) *ChromedpRenderer {
	return &ChromedpRenderer{opts: opts}
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	ctx2, cancel2 := context.WithTimeout(cctx, 60*time.Second)
	defer cancel2()

	tmpDir, err := os.MkdirTemp("", "jobber-pdf-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	width, height := PaperSize(r.opts.Format)
	margin, err := MarginInches(r.opts.Margin)
	if err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(ctx2,
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// PaperSize returns width and height in inches, Letter when unknown.
func PaperSize(format string) (float64, float64) {
	if s, ok := paperSizes[strings.ToLower(format)]; ok {
		return s[0], s[1]
	}
	return 8.5, 11
}

// MarginInches converts "0.75in", "20mm", "1cm" or "72px" to inches.
func MarginInches(m string) (float64, error) {
	m = strings.TrimSpace(strings.ToLower(m))
	if m == "" || m == "0" {
		return 0, nil
	}
	units := map[string]float64{"in": 1, "mm": 1 / 25.4, "cm": 1 / 2.54, "px": 1.0 / 96}
	for suffix, factor := range units {
		if strings.HasSuffix(m, suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(m, suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid margin %q: %w", m, err)
			}
			return v * factor, nil
		}
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid margin %q: %w", m, err)
	}
	return v / 96, nil
}
