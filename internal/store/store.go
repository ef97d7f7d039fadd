// Package store persists scraped postings and tailoring runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"jobber/internal/models"
	"jobber/internal/scraper"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	SavePosting(ctx context.Context, p scraper.JobPosting) (*models.PostingRecord, error)
	SaveRun(ctx context.Context, run *models.Run) error
	// LatestRun returns the most recent run that produced an output
	// directory, or ErrNotFound. Failed runs are skipped.
	LatestRun(ctx context.Context) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
	Close() error
}

// Open picks the backend for driver: "sqlite" (dsn is a file path, default
// dataDir/jobber.db), "postgres" (dsn is a connection url) or "none".
func Open(ctx context.Context, driver, dsn, dataDir string) (Store, error) {
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = filepath.Join(dataDir, "jobber.db")
		}
		return NewSQLite(dsn)
	case "postgres":
		return ConnectPostgres(ctx, dsn)
	case "none":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// Nop discards everything.
type Nop struct{}

func (Nop) SavePosting(_ context.Context, p scraper.JobPosting) (*models.PostingRecord, error) {
	return &models.PostingRecord{URL: p.URL, Title: p.Title, Location: p.Location, Description: p.Description, Company: p.Company}, nil
}
func (Nop) SaveRun(context.Context, *models.Run) error { return nil }
func (Nop) LatestRun(context.Context) (*models.Run, error) {
	return nil, ErrNotFound
}
func (Nop) ListRuns(context.Context, int) ([]models.Run, error) { return nil, nil }
func (Nop) Close() error                                         { return nil }

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
