// Package extract pulls field text out of rendered documents by racing
// candidate selectors across the main page and its embedded frames.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel marks a field no selector could resolve.
const Sentinel = "n-a"

const DefaultSelectorTimeout = 3 * time.Second

// Context is one render target: the main document or one iframe's document.
type Context interface {
	// Name identifies the context in logs ("main page", "iframe ...").
	Name() string
	// Text waits up to timeout for the first element matching selector to be
	// attached and returns its raw text content.
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)
}

type Engine struct {
	timeout time.Duration
	log     *logrus.Entry
}

func NewEngine(selectorTimeout time.Duration, log *logrus.Entry) *Engine {
	if selectorTimeout <= 0 {
		selectorTimeout = DefaultSelectorTimeout
	}
	return &Engine{timeout: selectorTimeout, log: log}
}

type match struct {
	text    string
	context string
}

// ExtractField returns the first accepted text for field across contexts, or
// Sentinel. Each context walks selectors in order; contexts race and the
// first accepted result by completion wins. Outstanding contexts are
// cancelled once a winner is found.
func (e *Engine) ExtractField(ctx context.Context, field string, contexts []Context, selectors []string) string {
	log := e.log.WithField("field", field)
	if len(contexts) == 0 || len(selectors) == 0 {
		log.Warn("⚠️ Nothing to search (no contexts or selectors)")
		return Sentinel
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	//buffered so losers never block after we return
	results := make(chan match, len(contexts))
	for _, c := range contexts {
		go func(c Context) {
			results <- match{text: e.tryContext(raceCtx, log, c, selectors), context: c.Name()}
		}(c)
	}

	for range contexts {
		select {
		case m := <-results:
			if m.text != "" {
				log.Debugf("✅ Matched in %s → %s", m.context, Ellipsis(m.text, 20))
				return m.text
			}
		case <-ctx.Done():
			log.Warnf("⚠️ Extraction cancelled: %v", ctx.Err())
			return Sentinel
		}
	}

	log.Warn("⚠️ No selectors yielded results (including iframes)")
	return Sentinel
}

// tryContext walks selectors in order inside one context and returns the
// first accepted text, or "".
func (e *Engine) tryContext(ctx context.Context, log *logrus.Entry, c Context, selectors []string) string {
	for _, selector := range selectors {
		if ctx.Err() != nil {
			return ""
		}
		raw, err := c.Text(ctx, selector, e.timeout)
		if err != nil {
			log.Debugf("Selector failed in %s: %s → %v", c.Name(), selector, err)
			continue
		}
		if text := Normalize(raw); text != "" {
			return text
		}
		log.Debugf("Selector matched empty text in %s: %s", c.Name(), selector)
	}
	return ""
}

// Normalize turns line breaks into spaces and trims the result.
func Normalize(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}

// Ellipsis shortens s to max runes, ending in "..." when cut.
func Ellipsis(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
