package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Screenshotter saves full-page debug screenshots of failed attempts.
// An empty dir disables capturing.
type Screenshotter struct {
	outputDir string
	now       func() time.Time
	log       *logrus.Entry
}

func NewScreenshotter(dir string, log *logrus.Entry) *Screenshotter {
	return &Screenshotter{outputDir: dir, now: time.Now, log: log}
}

// Path returns where a screenshot named name taken now would be written.
func (s *Screenshotter) Path(name string) string {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
}

func (s *Screenshotter) Capture(page playwright.Page, name string) error {
	if s.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("could not create screenshot dir: %w", err)
	}

	path := s.Path(name)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	s.log.Infof("📸 Screenshot saved: %s", path)
	return nil
}
