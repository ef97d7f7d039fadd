// Package command maps user-facing command names and aliases onto the
// scrape, tailor and export pipelines.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"jobber/internal/models"
	"jobber/internal/scraper"
	"jobber/internal/store"
	"jobber/internal/tailor"

	"github.com/sirupsen/logrus"
)

type Command string

const (
	Tailor       Command = "tailor"
	TailorManual Command = "tailor-manual"
	Scrape       Command = "scrape"
	SavePDF      Command = "save-pdf"
)

var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrMissingArgument is returned when a command needs an argument.
var ErrMissingArgument = errors.New("missing argument")

// Commands lists every supported command.
func Commands() []Command {
	return []Command{Tailor, TailorManual, Scrape, SavePDF}
}

type Tailorer interface {
	Run(ctx context.Context, req tailor.Request) (*models.Run, error)
}

type Scraper interface {
	Scrape(ctx context.Context, url string) (scraper.JobPosting, error)
}

type Exporter interface {
	Export(ctx context.Context, dir, name string) (string, error)
}

type Notifier interface {
	NotifyRun(run *models.Run) error
}

type Options struct {
	// Aliases maps extra names, such as the old hotkey combos, to commands.
	Aliases map[string]string
	// ResumePath is read for the candidate name used in PDF file names.
	ResumePath string
}

// Result carries whatever the command produced.
type Result struct {
	Command Command             `json:"command"`
	Posting *scraper.JobPosting `json:"posting,omitempty"`
	Run     *models.Run         `json:"run,omitempty"`
	PDFPath string              `json:"pdf_path,omitempty"`
}

type Dispatcher struct {
	tailor   Tailorer
	scraper  Scraper
	exporter Exporter
	store    store.Store
	notifier Notifier
	aliases  map[string]Command
	opts     Options
	log      *logrus.Entry
}

// NewDispatcher validates aliases up front: an alias pointing at an unknown
// command is a configuration error.
func NewDispatcher(t Tailorer, s Scraper, e Exporter, st store.Store, n Notifier, opts Options, log *logrus.Entry) (*Dispatcher, error) {
	aliases := make(map[string]Command, len(opts.Aliases))
	for alias, target := range opts.Aliases {
		cmd, ok := parse(target)
		if !ok {
			return nil, fmt.Errorf("alias %q: %w %q", alias, ErrUnsupportedCommand, target)
		}
		aliases[normalize(alias)] = cmd
	}
	if st == nil {
		st = store.Nop{}
	}
	return &Dispatcher{
		tailor:   t,
		scraper:  s,
		exporter: e,
		store:    st,
		notifier: n,
		aliases:  aliases,
		opts:     opts,
		log:      log,
	}, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parse(name string) (Command, bool) {
	n := Command(normalize(name))
	for _, c := range Commands() {
		if c == n {
			return c, true
		}
	}
	return "", false
}

// Resolve maps a command name or alias to a command.
func (d *Dispatcher) Resolve(name string) (Command, error) {
	if cmd, ok := parse(name); ok {
		return cmd, nil
	}
	if cmd, ok := d.aliases[normalize(name)]; ok {
		return cmd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCommand, name)
}

// Aliases returns the configured aliases sorted by name.
func (d *Dispatcher) Aliases() []string {
	out := make([]string, 0, len(d.aliases))
	for a := range d.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Execute runs the command named name with arg.
func (d *Dispatcher) Execute(ctx context.Context, name, arg string) (*Result, error) {
	cmd, err := d.Resolve(name)
	if err != nil {
		return nil, err
	}
	arg = strings.TrimSpace(arg)
	log := d.log.WithField("command", string(cmd))
	log.Info("⚡ Executing command")

	switch cmd {
	case Scrape:
		return d.scrape(ctx, arg)
	case Tailor:
		if arg == "" {
			return nil, fmt.Errorf("%s: %w: job url", cmd, ErrMissingArgument)
		}
		return d.runTailor(ctx, cmd, tailor.Request{URL: arg})
	case TailorManual:
		if arg == "" {
			return nil, fmt.Errorf("%s: %w: job description", cmd, ErrMissingArgument)
		}
		return d.runTailor(ctx, cmd, tailor.Request{Description: arg})
	case SavePDF:
		return d.savePDF(ctx, arg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCommand, name)
}

// TailorRequest runs the tailor command with a full request, for callers
// that have both a url and a fallback description.
func (d *Dispatcher) TailorRequest(ctx context.Context, req tailor.Request) (*Result, error) {
	return d.runTailor(ctx, Tailor, req)
}

func (d *Dispatcher) scrape(ctx context.Context, url string) (*Result, error) {
	if url == "" {
		return nil, fmt.Errorf("%s: %w: job url", Scrape, ErrMissingArgument)
	}
	posting, err := d.scraper.Scrape(ctx, url)
	res := &Result{Command: Scrape, Posting: &posting}
	if err != nil {
		return res, err
	}
	if _, serr := d.store.SavePosting(ctx, posting); serr != nil {
		d.log.Warnf("⚠️ Could not store posting: %v", serr)
	}
	return res, nil
}

func (d *Dispatcher) runTailor(ctx context.Context, cmd Command, req tailor.Request) (*Result, error) {
	run, err := d.tailor.Run(ctx, req)
	res := &Result{Command: cmd, Run: run}
	if run != nil {
		if serr := d.store.SaveRun(ctx, run); serr != nil {
			d.log.Warnf("⚠️ Could not store run: %v", serr)
		}
		if d.notifier != nil {
			_ = d.notifier.NotifyRun(run)
		}
		res.PDFPath = run.PDFPath
	}
	return res, err
}

// savePDF exports dir, or the latest run's output directory when dir is
// empty.
func (d *Dispatcher) savePDF(ctx context.Context, dir string) (*Result, error) {
	if d.exporter == nil {
		return nil, errors.New("pdf export is not configured")
	}

	var run *models.Run
	if dir == "" {
		latest, err := d.store.LatestRun(ctx)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%s: no previous run to export; pass an output directory", SavePDF)
			}
			return nil, err
		}
		if latest.OutputDir == "" {
			return nil, fmt.Errorf("%s: run %s has no output directory", SavePDF, latest.ID)
		}
		run = latest
		dir = latest.OutputDir
	}

	path, err := d.exporter.Export(ctx, dir, d.candidateName())
	if err != nil {
		return nil, err
	}
	if run != nil {
		run.PDFPath = path
		if serr := d.store.SaveRun(ctx, run); serr != nil {
			d.log.Warnf("⚠️ Could not store run: %v", serr)
		}
	}
	return &Result{Command: SavePDF, Run: run, PDFPath: path}, nil
}

func (d *Dispatcher) candidateName() string {
	if d.opts.ResumePath == "" {
		return ""
	}
	r, err := tailor.LoadResume(d.opts.ResumePath)
	if err != nil {
		d.log.Debugf("Could not read resume name: %v", err)
		return ""
	}
	return r.Data.Name
}
