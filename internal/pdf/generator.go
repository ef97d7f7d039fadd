// Package pdf prints the rendered résumé HTML to PDF with a headless browser.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	ResumeHTML = "resume.html"
	DefaultPDF = "resume.pdf"
)

// Renderer converts a complete HTML document into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// PageOptions describe the printed page.
type PageOptions struct {
	// Format is a paper name, "Letter" or "A4".
	Format string
	// Margin applies to all four sides, in CSS units ("0.75in").
	Margin string
}

func DefaultPageOptions() PageOptions {
	return PageOptions{Format: "Letter", Margin: "0.75in"}
}

// NewRenderer returns the renderer registered under name.
func NewRenderer(name string, opts PageOptions) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "playwright":
		return NewPlaywrightRenderer(opts), nil
	case "chromedp":
		return NewChromedpRenderer(opts), nil
	}
	return nil, fmt.Errorf("unknown pdf renderer %q", name)
}

// Exporter turns the resume.html of an output directory into a PDF next to it.
type Exporter struct {
	renderer Renderer
	log      *logrus.Entry
}

func NewExporter(r Renderer, log *logrus.Entry) *Exporter {
	return &Exporter{renderer: r, log: log}
}

// Export renders dir/resume.html to dir/<Name>_Resume.pdf, or dir/resume.pdf
// when name is empty, and returns the written path.
func (e *Exporter) Export(ctx context.Context, dir, name string) (string, error) {
	htmlBytes, err := os.ReadFile(filepath.Join(dir, ResumeHTML))
	if err != nil {
		return "", fmt.Errorf("could not read resume html: %w", err)
	}

	e.log.Infof("🖨️ Rendering PDF from %s", dir)
	pdfBytes, err := e.renderer.RenderHTMLToPDF(ctx, string(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("could not generate PDF: %w", err)
	}

	out := filepath.Join(dir, FileName(name))
	if err := SaveToFile(pdfBytes, out); err != nil {
		return "", err
	}
	e.log.Infof("✅ PDF saved: %s", out)
	return out, nil
}

// FileName builds "<Name>_Resume.pdf" with spaces turned into underscores.
func FileName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, name)
	if name == "" {
		return DefaultPDF
	}
	return name + "_Resume.pdf"
}

// SaveToFile writes pdfBytes to outputPath, creating parent directories.
func SaveToFile(pdfBytes []byte, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}

	return os.WriteFile(outputPath, pdfBytes, 0644)
}
