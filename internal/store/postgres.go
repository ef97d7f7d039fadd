package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobber/internal/models"
	"jobber/internal/scraper"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS postings (
    id          UUID PRIMARY KEY,
    url         TEXT NOT NULL,
    title       TEXT NOT NULL,
    location    TEXT NOT NULL,
    description TEXT NOT NULL,
    company     TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS runs (
    id         UUID PRIMARY KEY,
    url        TEXT NOT NULL,
    company    TEXT NOT NULL,
    job_title  TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    pdf_path   TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL,
    error      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// Postgres stores runs in a shared database.
type Postgres struct {
	db *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode do not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}

	return &Postgres{db: pool}, nil
}

func (r *Postgres) Close() error {
	if r.db != nil {
		r.db.Close()
	}
	return nil
}

func (r *Postgres) SavePosting(ctx context.Context, p scraper.JobPosting) (*models.PostingRecord, error) {
	rec := &models.PostingRecord{
		ID:          uuid.NewString(),
		URL:         p.URL,
		Title:       p.Title,
		Location:    p.Location,
		Description: p.Description,
		Company:     p.Company,
	}
	query := `
		INSERT INTO postings (id, url, title, location, description, company)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, rec.ID, rec.URL, rec.Title, rec.Location, rec.Description, rec.Company).
		Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save posting: %w", err)
	}
	return rec, nil
}

func (r *Postgres) SaveRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO runs (id, url, company, job_title, output_dir, pdf_path, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET company = EXCLUDED.company, job_title = EXCLUDED.job_title, output_dir = EXCLUDED.output_dir,
		              pdf_path = EXCLUDED.pdf_path, status = EXCLUDED.status, error = EXCLUDED.error`
	_, err := r.db.Exec(ctx, query, run.ID, run.URL, run.Company, run.JobTitle, run.OutputDir, run.PDFPath, string(run.Status), run.Error, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const pgRunColumns = `id::text, url, company, job_title, output_dir, pdf_path, status, error, created_at`

func (r *Postgres) LatestRun(ctx context.Context) (*models.Run, error) {
	row := r.db.QueryRow(ctx, `SELECT `+pgRunColumns+` FROM runs WHERE output_dir <> '' AND status <> $1 ORDER BY created_at DESC LIMIT 1`, string(models.StatusFailed))
	run, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

func (r *Postgres) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pgRunColumns+` FROM runs ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanPgRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanPgRun(row pgx.Row) (*models.Run, error) {
	var run models.Run
	var status string
	if err := row.Scan(&run.ID, &run.URL, &run.Company, &run.JobTitle, &run.OutputDir, &run.PDFPath, &status, &run.Error, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = models.RunStatus(status)
	return &run, nil
}
