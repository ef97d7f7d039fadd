package extract

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobber/internal/logging"

	"github.com/stretchr/testify/assert"
)

type hit struct {
	text  string
	delay time.Duration
}

// fakeContext answers selectors from a table; unknown selectors time out
// after the given timeout (or when the race is cancelled).
type fakeContext struct {
	name  string
	hits  map[string]hit
	mu    sync.Mutex
	tried []string
	calls atomic.Int32
}

func (f *fakeContext) Name() string { return f.name }

func (f *fakeContext) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.tried = append(f.tried, selector)
	f.mu.Unlock()

	h, ok := f.hits[selector]
	wait := h.delay
	if !ok {
		wait = timeout
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if !ok {
		return "", errors.New("timeout waiting for " + selector)
	}
	return h.text, nil
}

func (f *fakeContext) triedSelectors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tried...)
}

func newEngine() *Engine {
	return NewEngine(20*time.Millisecond, logging.Discard())
}

func TestExtractField_NoMatchReturnsSentinel(t *testing.T) {
	main := &fakeContext{name: "main page"}
	frame := &fakeContext{name: "iframe"}

	for i := 0; i < 3; i++ {
		got := newEngine().ExtractField(context.Background(), "job_desc", []Context{main, frame}, []string{"div.desc", "#content"})
		assert.Equal(t, Sentinel, got)
	}
}

func TestExtractField_EmptyInputs(t *testing.T) {
	e := newEngine()
	assert.Equal(t, Sentinel, e.ExtractField(context.Background(), "job_title", nil, []string{"h1"}))
	assert.Equal(t, Sentinel, e.ExtractField(context.Background(), "job_title", []Context{&fakeContext{name: "main"}}, nil))
}

func TestExtractField_FirstSelectorWinsWithinContext(t *testing.T) {
	main := &fakeContext{name: "main page", hits: map[string]hit{
		"sel-A": {text: "from A", delay: 5 * time.Millisecond},
		"sel-B": {text: "from B"},
	}}

	got := newEngine().ExtractField(context.Background(), "job_title", []Context{main}, []string{"sel-A", "sel-B"})

	assert.Equal(t, "from A", got)
	assert.Equal(t, []string{"sel-A"}, main.triedSelectors())
}

func TestExtractField_SkipsFailedAndBlankSelectors(t *testing.T) {
	main := &fakeContext{name: "main page", hits: map[string]hit{
		"blank": {text: " \n\r "},
		"good":  {text: "\n  Senior Engineer\r\n"},
	}}

	got := newEngine().ExtractField(context.Background(), "job_title", []Context{main}, []string{"missing", "blank", "good"})

	assert.Equal(t, "Senior Engineer", got)
	assert.Equal(t, []string{"missing", "blank", "good"}, main.triedSelectors())
}

func TestExtractField_IframeMatchWhenMainMisses(t *testing.T) {
	main := &fakeContext{name: "main page"}
	frame := &fakeContext{name: "iframe boards.greenhouse.io", hits: map[string]hit{
		"#content": {text: "Build things\nwith us"},
	}}

	got := newEngine().ExtractField(context.Background(), "job_desc", []Context{main, frame}, []string{"div.desc", "#content"})

	assert.Equal(t, "Build things with us", got)
}

func TestExtractField_FirstCompletedContextWins(t *testing.T) {
	slow := &fakeContext{name: "main page", hits: map[string]hit{"h1": {text: "slow", delay: 200 * time.Millisecond}}}
	fast := &fakeContext{name: "iframe", hits: map[string]hit{"h1": {text: "fast", delay: time.Millisecond}}}

	start := time.Now()
	got := newEngine().ExtractField(context.Background(), "job_title", []Context{slow, fast}, []string{"h1"})

	assert.Equal(t, "fast", got)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestExtractField_RacesContextsConcurrently(t *testing.T) {
	var contexts []Context
	for i := 0; i < 5; i++ {
		contexts = append(contexts, &fakeContext{name: "ctx"})
	}
	e := NewEngine(50*time.Millisecond, logging.Discard())

	start := time.Now()
	got := e.ExtractField(context.Background(), "job_loc", contexts, []string{"a", "b"})

	//sequential would take 5 contexts x 2 selectors x 50ms
	assert.Equal(t, Sentinel, got)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestExtractField_CancelsLosers(t *testing.T) {
	winner := &fakeContext{name: "main page", hits: map[string]hit{"a": {text: "won"}}}
	loser := &fakeContext{name: "iframe"}
	e := NewEngine(time.Second, logging.Discard())

	got := e.ExtractField(context.Background(), "job_title", []Context{winner, loser}, []string{"a", "b", "c"})
	assert.Equal(t, "won", got)

	//the loser is cancelled on (or before) its first selector and never tries the rest
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, loser.calls.Load(), int32(1))
}

func TestExtractField_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	main := &fakeContext{name: "main page", hits: map[string]hit{"h1": {text: "late", delay: time.Second}}}
	got := NewEngine(time.Second, logging.Discard()).ExtractField(ctx, "job_title", []Context{main}, []string{"h1"})

	assert.Equal(t, Sentinel, got)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b  c", Normalize("  a\nb\r\nc  "))
	assert.Equal(t, "", Normalize("\n\r\t "))
}

func TestEllipsis(t *testing.T) {
	assert.Equal(t, "short", Ellipsis("short", 20))
	assert.Equal(t, "We need an engine...", Ellipsis("We need an engineer. At Acme Corp", 20))
	assert.Equal(t, "ab", Ellipsis("abcdef", 2))
}
