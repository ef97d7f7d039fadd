// Package tailor rewrites the résumé's work experience for one job posting
// and writes the result to a versioned output directory.
package tailor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobber/internal/ai"
	"jobber/internal/extract"
	"jobber/internal/filter"
	"jobber/internal/models"
	"jobber/internal/render"
	"jobber/internal/scraper"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ResumeFile  = "resume.html"
	PostingFile = "posting.json"
)

// ErrNoInput means neither a URL nor a description was given.
var ErrNoInput = errors.New("a job url or a job description is required")

// PostingScraper is the part of scraper.Scraper the pipeline needs.
type PostingScraper interface {
	Scrape(ctx context.Context, url string) (scraper.JobPosting, error)
}

// PDFExporter is the part of pdf.Exporter the pipeline needs.
type PDFExporter interface {
	Export(ctx context.Context, dir, name string) (string, error)
}

type Options struct {
	ResumePath     string
	TemplatePath   string
	OutputDir      string
	BulletsPerRole int
	// AutoPDF exports a PDF right after writing the HTML.
	AutoPDF bool
}

type Request struct {
	URL string
	// Description is used when URL is empty or scraping fails.
	Description string
	// OutputDir overrides Options.OutputDir for this run.
	OutputDir string
}

type Tailor struct {
	scraper   PostingScraper
	completer ai.Completer
	exporter  PDFExporter
	opts      Options
	now       func() time.Time
	log       *logrus.Entry
}

// New wires the pipeline. completer and exporter may be nil: without a
// completer bullets are ranked locally, without an exporter no PDF is made.
func New(s PostingScraper, c ai.Completer, e PDFExporter, opts Options, log *logrus.Entry) *Tailor {
	if opts.BulletsPerRole <= 0 {
		opts.BulletsPerRole = 5
	}
	return &Tailor{
		scraper:   s,
		completer: c,
		exporter:  e,
		opts:      opts,
		now:       time.Now,
		log:       log,
	}
}

// FromDescription builds a posting from pasted text. Title and location
// are unknown; the company is inferred.
func FromDescription(url, description string) scraper.JobPosting {
	p := scraper.EmptyPosting(url)
	p.Description = extract.Normalize(description)
	if p.Description == "" {
		p.Description = extract.Sentinel
		return p
	}
	p.Company = extract.InferCompany(p.Description)
	return p
}

// Posting scrapes req.URL, falling back to req.Description.
func (t *Tailor) Posting(ctx context.Context, req Request) (scraper.JobPosting, error) {
	if req.URL == "" {
		if req.Description == "" {
			return scraper.EmptyPosting(""), ErrNoInput
		}
		return FromDescription("", req.Description), nil
	}

	posting, err := t.scraper.Scrape(ctx, req.URL)
	if err == nil {
		return posting, nil
	}
	if req.Description == "" || errors.Is(err, context.Canceled) {
		return posting, err
	}
	t.log.Warnf("⚠️ Scrape failed, using the provided description: %v", err)
	return FromDescription(req.URL, req.Description), nil
}

// Run executes one full tailoring pass and returns its record. The run is
// returned with StatusFailed alongside any error after the posting stage.
func (t *Tailor) Run(ctx context.Context, req Request) (*models.Run, error) {
	run := &models.Run{
		ID:        uuid.NewString(),
		URL:       req.URL,
		Status:    models.StatusFailed,
		CreatedAt: t.now(),
	}
	log := t.log.WithField("run", run.ID)

	posting, err := t.Posting(ctx, req)
	if err != nil {
		run.Error = err.Error()
		return run, err
	}
	run.Company = posting.Company
	run.JobTitle = posting.Title

	resume, err := LoadResume(t.opts.ResumePath)
	if err != nil {
		run.Error = err.Error()
		return run, err
	}

	run.Status = t.tailorExperience(ctx, log, resume, posting.Description)

	html, err := t.renderHTML(resume)
	if err != nil {
		run.Status = models.StatusFailed
		run.Error = err.Error()
		return run, err
	}

	base := t.opts.OutputDir
	if req.OutputDir != "" {
		base = req.OutputDir
	}
	dir, err := NextOutputDir(base, run.CreatedAt, posting.Company, posting.Title)
	if err != nil {
		run.Status = models.StatusFailed
		run.Error = err.Error()
		return run, err
	}
	run.OutputDir = dir

	if err := writeOutputs(dir, html, posting); err != nil {
		run.Status = models.StatusFailed
		run.Error = err.Error()
		return run, err
	}
	log.Infof("📝 Tailored resume written to %s", dir)

	if t.opts.AutoPDF && t.exporter != nil {
		path, err := t.exporter.Export(ctx, dir, resume.Data.Name)
		if err != nil {
			log.Warnf("⚠️ PDF export failed: %v", err)
		} else {
			run.PDFPath = path
		}
	}
	return run, nil
}

// tailorExperience asks the LLM for new bullets and falls back to local
// ranking on any failure.
func (t *Tailor) tailorExperience(ctx context.Context, log *logrus.Entry, resume *models.Resume, description string) models.RunStatus {
	if t.completer != nil && description != extract.Sentinel {
		err := t.askLLM(ctx, resume, description)
		if err == nil {
			log.Info("🤖 Work experience tailored by LLM")
			return models.StatusTailored
		}
		log.Warnf("⚠️ LLM tailoring failed, ranking bullets locally: %v", err)
	}

	for i := range resume.Data.WorkExperience {
		exp := &resume.Data.WorkExperience[i]
		exp.Responsibilities = filter.RankBullets(description, exp.Responsibilities, t.opts.BulletsPerRole)
	}
	return models.StatusFallback
}

func (t *Tailor) askLLM(ctx context.Context, resume *models.Resume, description string) error {
	prompt, err := BuildPrompt(resume, description, t.opts.BulletsPerRole)
	if err != nil {
		return err
	}
	reply, err := t.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return err
	}
	updates, err := ParseExperience(reply)
	if err != nil {
		return err
	}
	return UpdateWorkExperience(resume, updates)
}

func (t *Tailor) renderHTML(resume *models.Resume) (string, error) {
	doc, err := render.LoadTemplate(t.opts.TemplatePath)
	if err != nil {
		return "", err
	}
	render.SetName(doc, resume.Data.Name)
	if err := render.InjectExperience(doc, resume.Data.WorkExperience); err != nil {
		return "", err
	}
	return render.HTML(doc)
}

func writeOutputs(dir, html string, posting scraper.JobPosting) error {
	if err := os.WriteFile(filepath.Join(dir, ResumeFile), []byte(html), 0644); err != nil {
		return fmt.Errorf("unable to write resume html: %w", err)
	}
	data, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, PostingFile), data, 0644); err != nil {
		return fmt.Errorf("unable to write posting: %w", err)
	}
	return nil
}
