package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
)

var t0 = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func tick(seq uint64, outcome string, x, y float64) recorder.Tick {
	return recorder.Tick{
		Seq:        seq,
		CapturedAt: t0.Add(time.Duration(seq) * 20 * time.Millisecond),
		Result:     pointing.PointingResult{Hit: outcome == pointing.OutcomeHit, X: x, Y: y},
		Outcome:    outcome,
	}
}

func sampleTicks() []recorder.Tick {
	return []recorder.Tick{
		tick(1, pointing.OutcomeHit, 0.25, 0.5),
		tick(2, pointing.OutcomeHit, 0.75, 0.5),
		tick(3, pointing.OutcomeMiss, 1.2, 0.4),
		tick(4, pointing.OutcomeInsufficientPoints, 1.2, 0.4),
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	ticks := sampleTicks()
	// Order does not matter.
	ticks[0], ticks[3] = ticks[3], ticks[0]
	s := Summarize(ticks)

	assert.Equal(t, 4, s.Ticks)
	assert.Equal(t, 2, s.Hits)
	assert.InDelta(t, 0.5, s.HitRate(), 1e-12)
	assert.InDelta(t, 0.5, s.MeanX, 1e-12)
	assert.InDelta(t, 0.5, s.MeanY, 1e-12)
	assert.Equal(t, map[string]int{
		pointing.OutcomeHit:                2,
		pointing.OutcomeMiss:               1,
		pointing.OutcomeInsufficientPoints: 1,
	}, s.Outcomes)
	assert.Equal(t, t0.Add(20*time.Millisecond), s.First)
	assert.Equal(t, 60*time.Millisecond, s.Duration())

	out := s.String()
	assert.Contains(t, out, "hits:     2 (50.0%)")
	assert.Contains(t, out, "mean hit: (0.500, 0.500)")
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Zero(t, s.Ticks)
	assert.Zero(t, s.HitRate())
	assert.Zero(t, s.Duration())
	assert.NotContains(t, s.String(), "mean hit")
}

func TestSplitDropsStalePositions(t *testing.T) {
	t.Parallel()

	hits, misses := split(sampleTicks())
	assert.Len(t, hits, 2)
	require.Len(t, misses, 1)
	assert.Equal(t, 1.2, misses[0].X)
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, "session-abc", sampleTicks()))

	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "output is not an HTML page")
	assert.Contains(t, html, "session-abc")
	assert.Contains(t, html, "Pointing position")
	assert.Contains(t, html, pointing.OutcomeInsufficientPoints)
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()

	for name, ticks := range map[string][]recorder.Tick{
		"sample": sampleTicks(),
		"empty":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "pointing.png")
			require.NoError(t, RenderPNG(path, name, ticks))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "output is not a PNG")
		})
	}
}

func TestPlotXYsFlipsY(t *testing.T) {
	t.Parallel()

	xys := plotXYs([]pointing.PointingResult{{X: 0.2, Y: 0.1}})
	assert.InDelta(t, 0.2, xys[0].X, 1e-12)
	assert.InDelta(t, 0.9, xys[0].Y, 1e-12)
}
