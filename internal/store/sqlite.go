package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobber/internal/models"
	"jobber/internal/scraper"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS postings (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL,
    title       TEXT NOT NULL,
    location    TEXT NOT NULL,
    description TEXT NOT NULL,
    company     TEXT NOT NULL,
    created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    url        TEXT NOT NULL,
    company    TEXT NOT NULL,
    job_title  TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    pdf_path   TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL,
    error      TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// SQLite is the default local store.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	//one writer avoids SQLITE_BUSY between the CLI and the server
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) SavePosting(ctx context.Context, p scraper.JobPosting) (*models.PostingRecord, error) {
	rec := &models.PostingRecord{
		ID:          uuid.NewString(),
		URL:         p.URL,
		Title:       p.Title,
		Location:    p.Location,
		Description: p.Description,
		Company:     p.Company,
		CreatedAt:   s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO postings (id, url, title, location, description, company, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.Title, rec.Location, rec.Description, rec.Company, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save posting: %w", err)
	}
	return rec, nil
}

// SaveRun inserts run, or updates it when the id already exists.
func (s *SQLite) SaveRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, url, company, job_title, output_dir, pdf_path, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   company = excluded.company, job_title = excluded.job_title, output_dir = excluded.output_dir,
		   pdf_path = excluded.pdf_path, status = excluded.status, error = excluded.error`,
		run.ID, run.URL, run.Company, run.JobTitle, run.OutputDir, run.PDFPath, string(run.Status), run.Error, run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const runColumns = `id, url, company, job_title, output_dir, pdf_path, status, error, created_at`

func (s *SQLite) LatestRun(ctx context.Context) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE output_dir <> '' AND status <> ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, string(models.StatusFailed))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var run models.Run
	var status string
	var created int64
	if err := row.Scan(&run.ID, &run.URL, &run.Company, &run.JobTitle, &run.OutputDir, &run.PDFPath, &status, &run.Error, &created); err != nil {
		return nil, err
	}
	run.Status = models.RunStatus(status)
	run.CreatedAt = time.Unix(0, created).UTC()
	return &run, nil
}
