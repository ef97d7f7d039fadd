package models

import (
	"time"
)

type RunStatus string

const (
	// StatusTailored means the LLM rewrote the bullets.
	StatusTailored RunStatus = "TAILORED"
	// StatusFallback means bullets were ranked locally after an LLM failure.
	StatusFallback RunStatus = "FALLBACK"
	StatusFailed   RunStatus = "FAILED"
)

// Run is one tailoring pass for one posting.
type Run struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Company   string    `json:"company"`
	JobTitle  string    `json:"job_title"`
	OutputDir string    `json:"output_dir"`
	PDFPath   string    `json:"pdf_path,omitempty"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostingRecord is a stored scrape result.
type PostingRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"job_title"`
	Location    string    `json:"job_location"`
	Description string    `json:"job_description"`
	Company     string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}
