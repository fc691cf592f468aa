package main

import (
	"context"
	"errors"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/irpointer/internal/config"
	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/recorder"
	"github.com/banshee-data/irpointer/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func str(s string) *string { return &s }
func boolean(b bool) *bool { return &b }

func TestRecordThenReplay(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "irprobe.db")

	recordCfg := config.EmptyProbeConfig()
	recordCfg.PollInterval = str("0s")
	recordCfg.DBPath = str(dbPath)
	recordCfg.Record = boolean(true)
	require.NoError(t, recordCfg.Validate())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	recorded, err := run(ctx, recordCfg, timeutil.RealClock{})
	require.True(t, errors.Is(err, context.DeadlineExceeded), "run error = %v", err)
	require.NotZero(t, recorded.Ticks)
	require.Zero(t, recorded.RecordErrors)

	store, err := recorder.Open(dbPath)
	require.NoError(t, err)
	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, sessions, 1)
	assert.Equal(t, config.SourceSynthetic, sessions[0].Source)
	assert.Equal(t, "strict", sessions[0].Coverage)

	replayCfg := config.EmptyProbeConfig()
	replayCfg.Source = str(config.SourceReplay)
	replayCfg.ReplaySession = str(sessions[0].ID)
	replayCfg.PollInterval = str("0s")
	replayCfg.DBPath = str(dbPath)
	require.NoError(t, replayCfg.Validate())

	replayed, err := run(context.Background(), replayCfg, timeutil.RealClock{})
	require.NoError(t, err)
	assert.Equal(t, recorded.Ticks, replayed.Ticks)
	assert.Equal(t, recorded.Hits, replayed.Hits)
	assert.Equal(t, recorded.Outcomes, replayed.Outcomes)
}

func TestReplayUnknownSession(t *testing.T) {
	cfg := config.EmptyProbeConfig()
	cfg.Source = str(config.SourceReplay)
	cfg.ReplaySession = str("missing")
	cfg.DBPath = str(filepath.Join(t.TempDir(), "irprobe.db"))

	_, err := run(context.Background(), cfg, timeutil.RealClock{})
	assert.ErrorIs(t, err, recorder.ErrSessionNotFound)
}

func TestOpenSourceSynthetic(t *testing.T) {
	cfg := config.EmptyProbeConfig()
	src, err := openSource(cfg, nil)
	require.NoError(t, err)
	defer src.Close()

	ps, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, ps.ValidCount(), 4)
}

func TestOpenSourceReplayWithoutStore(t *testing.T) {
	cfg := config.EmptyProbeConfig()
	cfg.Source = str(config.SourceReplay)
	_, err := openSource(cfg, nil)
	assert.Error(t, err)
}

func TestOpenSourceBridgeMissingDevice(t *testing.T) {
	cfg := config.EmptyProbeConfig()
	cfg.Source = str(config.SourceBridge)
	cfg.SerialPort = str(filepath.Join(t.TempDir(), "no-such-tty"))
	_, err := openSource(cfg, nil)
	assert.Error(t, err)
}

func TestRunRejectsBadCoverage(t *testing.T) {
	cfg := config.EmptyProbeConfig()
	cfg.Coverage = str("loose")
	_, err := run(context.Background(), cfg, timeutil.RealClock{})
	assert.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	require.NoError(t, flag.Set("replay", "abc123"))
	require.NoError(t, flag.Set("coverage", "relaxed"))
	t.Cleanup(func() {
		flag.Set("replay", "")
		flag.Set("coverage", "")
	})

	cfg := config.EmptyProbeConfig()
	applyFlagOverrides(cfg)

	assert.Equal(t, config.SourceReplay, cfg.GetSource())
	assert.Equal(t, "abc123", cfg.GetReplaySession())
	assert.Equal(t, "relaxed", cfg.GetCoverage())
	assert.Nil(t, cfg.SerialPort)
}
