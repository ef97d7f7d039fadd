// Define the posting model and the browser capability surface the scraper needs

package scraper

import (
	"context"
	"time"

	"jobber/internal/extract"
)

// JobPosting is the scraped result handed to the tailoring stage.
// Unresolved fields hold extract.Sentinel.
type JobPosting struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"job_title"`
	Location    string `json:"job_location"`
	Description string `json:"job_description"`
	Company     string `json:"company_name"`
}

// EmptyPosting returns a posting with every field at the sentinel.
func EmptyPosting(url string) JobPosting {
	return JobPosting{
		URL:         url,
		Title:       extract.Sentinel,
		Location:    extract.Sentinel,
		Description: extract.Sentinel,
		Company:     extract.Sentinel,
	}
}

// Launcher starts an isolated browser session. Each scrape attempt gets its
// own session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one browser instance with one page.
type Session interface {
	// Navigate loads url, failing after timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Contexts returns the main document first, then every iframe document.
	Contexts(ctx context.Context) ([]extract.Context, error)
	// Close tears down the page and the browser process.
	Close() error
}

// Snapshotter is implemented by sessions that can save a debug screenshot
// when an attempt fails.
type Snapshotter interface {
	Snapshot(name string) error
}
