package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"jobber/internal/command"
	"jobber/internal/config"
	"jobber/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	sel := filepath.Join(dir, "selectors.json")
	require.NoError(t, os.WriteFile(sel, []byte(`{"default":{"job_title":["h1"],"job_loc":[".loc"],"job_desc":["#desc"]}}`), 0644))

	cfg := &config.Config{
		Paths:   config.PathsConfig{Selectors: sel, DataDir: filepath.Join(dir, "data")},
		Aliases: map[string]string{"ctrl+alt+t": "tailor"},
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logging.NewWithOutput(io.Discard, "info", "text"))
	require.NoError(t, err)
	defer a.Close()

	cmd, err := a.Dispatcher.Resolve("ctrl+alt+t")
	require.NoError(t, err)
	assert.Equal(t, command.Tailor, cmd)
	assert.Equal(t, 3, a.Scraper.Options().MaxRetries)

	runs, err := a.Store.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNew_MissingSelectors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.Selectors = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(context.Background(), cfg, logging.NewWithOutput(io.Discard, "info", "text"))
	assert.Error(t, err)
}

func TestNew_BadAlias(t *testing.T) {
	cfg := testConfig(t)
	cfg.Aliases = map[string]string{"x": "explode"}

	_, err := New(context.Background(), cfg, logging.NewWithOutput(io.Discard, "info", "text"))
	assert.ErrorIs(t, err, command.ErrUnsupportedCommand)
}
