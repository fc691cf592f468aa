package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
	"github.com/banshee-data/irpointer/internal/security"
)

func init() {
	monitoring.SetLogger(nil)
}

func seededStore(t *testing.T) (*recorder.Store, string) {
	t.Helper()
	store, err := recorder.Open(filepath.Join(t.TempDir(), "irprobe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	sess, err := store.StartSession("synthetic", "strict", start)
	require.NoError(t, err)
	for i, outcome := range []string{pointing.OutcomeHit, pointing.OutcomeHit, pointing.OutcomeIncompleteCoverage} {
		require.NoError(t, sess.RecordTick(recorder.Tick{
			Seq:        uint64(i + 1),
			CapturedAt: start.Add(time.Duration(i) * 20 * time.Millisecond),
			Result:     pointing.PointingResult{Hit: outcome == pointing.OutcomeHit, X: 0.4, Y: 0.6},
			Outcome:    outcome,
		}))
	}
	return store, sess.ID
}

func TestListSessions(t *testing.T) {
	store, id := seededStore(t)

	var buf bytes.Buffer
	require.NoError(t, listSessions(&buf, store))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, id), "got %q", out)
	assert.Contains(t, out, "ticks=3")
}

func TestGenerateText(t *testing.T) {
	store, id := seededStore(t)

	var buf bytes.Buffer
	require.NoError(t, generate(store, "", "text", "", &buf))
	out := buf.String()
	assert.Contains(t, out, "session "+id)
	assert.Contains(t, out, "hits:     2 (66.7%)")
	assert.Contains(t, out, pointing.OutcomeIncompleteCoverage)
}

func TestGenerateHTMLToFile(t *testing.T) {
	store, id := seededStore(t)
	out := filepath.Join(t.TempDir(), "report.html")

	require.NoError(t, generate(store, id, "HTML", out, nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), id)
}

func TestGeneratePNG(t *testing.T) {
	store, id := seededStore(t)
	dir := t.TempDir()

	assert.Error(t, generate(store, id, "png", "", nil))
	assert.Error(t, generate(store, id, "png", filepath.Join(dir, "plot.jpg"), nil))

	out := filepath.Join(dir, "plot.png")
	require.NoError(t, generate(store, id, "png", out, nil))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestGenerateErrors(t *testing.T) {
	store, err := recorder.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, generate(store, "", "text", "", &bytes.Buffer{}), "empty database")
	assert.ErrorIs(t, generate(store, "nope", "text", "", &bytes.Buffer{}), recorder.ErrSessionNotFound)

	seeded, id := seededStore(t)
	assert.Error(t, generate(seeded, id, "svg", "", &bytes.Buffer{}))
	assert.ErrorIs(t, generate(seeded, id, "html", "/proc/irreport.html", nil), security.ErrOutsideAllowedDirs)
}
