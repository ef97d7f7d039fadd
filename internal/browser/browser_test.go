package browser

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jobber/internal/logging"
	"jobber/internal/scraper"

	"github.com/stretchr/testify/assert"
)

var _ scraper.Launcher = (*Launcher)(nil)
var _ scraper.Session = (*Session)(nil)
var _ scraper.Snapshotter = (*Session)(nil)

func TestScreenshotter_Path(t *testing.T) {
	s := NewScreenshotter("logs/screenshots", logging.Discard())
	s.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	assert.Equal(t, filepath.Join("logs/screenshots", "scrape-failed-example-com_2024-03-09_14-05-07.png"), s.Path("scrape-failed-example-com"))
}

func TestScreenshotter_DisabledWithoutDir(t *testing.T) {
	s := NewScreenshotter("", logging.Discard())
	assert.NoError(t, s.Capture(nil, "anything"))
}

func TestRandomDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RandomDelay(ctx, 5000, 6000)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRandomDelay_Bounds(t *testing.T) {
	start := time.Now()
	assert.NoError(t, RandomDelay(context.Background(), 10, 5))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 10000.0, millis(10*time.Second))
	assert.Equal(t, 3000.0, millis(3*time.Second))
}

func TestRandomUserAgent(t *testing.T) {
	assert.Contains(t, userAgents, randomUserAgent())
}
