// Package sampler drives the pointing engine from a sensor source at a
// fixed poll interval and keeps running outcome statistics.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
	"github.com/banshee-data/irpointer/internal/sensor"
	"github.com/banshee-data/irpointer/internal/timeutil"
)

var logf = monitoring.Tagged("sampler")

// TickRecorder persists sampled ticks. *recorder.Session implements it.
type TickRecorder interface {
	RecordTick(recorder.Tick) error
}

// Config contains the collaborators and options for a Sampler.
type Config struct {
	Source sensor.Source
	Engine *pointing.Engine
	Clock  timeutil.Clock

	// PollInterval is the time between reads. Zero reads back to back,
	// leaving the pacing to the source.
	PollInterval time.Duration
	// StatsInterval is the period of the summary log line. Zero disables it.
	StatsInterval time.Duration

	Recorder  TickRecorder
	OnResult  func(recorder.Tick)
	LogMisses bool
}

// Stats is a snapshot of the sampler counters.
type Stats struct {
	Ticks        uint64
	Hits         uint64
	RecordErrors uint64
	Outcomes     map[string]uint64
	Last         pointing.PointingResult
}

// HitRate returns the fraction of ticks that produced a hit.
func (s Stats) HitRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Ticks)
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticks=%d hits=%d (%.1f%%)", s.Ticks, s.Hits, 100*s.HitRate())
	for _, k := range slices.Sorted(maps.Keys(s.Outcomes)) {
		if k == pointing.OutcomeHit {
			continue
		}
		fmt.Fprintf(&b, " %s=%d", k, s.Outcomes[k])
	}
	if s.RecordErrors > 0 {
		fmt.Fprintf(&b, " record_errors=%d", s.RecordErrors)
	}
	fmt.Fprintf(&b, " last=(%.3f, %.3f)", s.Last.X, s.Last.Y)
	return b.String()
}

// Sampler polls a Source and feeds every PointSet through an Engine.
type Sampler struct {
	cfg Config
	seq uint64

	mu    sync.Mutex
	stats Stats
}

// New creates a Sampler. A nil Clock defaults to the real clock and a nil
// Engine to a strict-coverage engine.
func New(cfg Config) *Sampler {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if cfg.Engine == nil {
		cfg.Engine = pointing.NewEngine(pointing.EngineConfig{})
	}
	return &Sampler{
		cfg:   cfg,
		stats: Stats{Outcomes: make(map[string]uint64)},
	}
}

// Run samples until the context is cancelled or the source is exhausted.
// An exhausted source (io.EOF) is a clean stop and returns nil.
func (s *Sampler) Run(ctx context.Context) error {
	if s.cfg.Source == nil {
		return errors.New("sampler: no source configured")
	}
	logf("sampling every %s with %s coverage", s.cfg.PollInterval, s.cfg.Engine.Config().Coverage)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if s.cfg.StatsInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.logStatsLoop(ctx)
		}()
	}

	var tick <-chan time.Time
	if s.cfg.PollInterval > 0 {
		ticker := s.cfg.Clock.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		tick = ticker.C()
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		points, err := s.cfg.Source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			logf("source exhausted: %s", s.Stats())
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			return fmt.Errorf("failed to read source: %w", err)
		}

		s.step(points)
	}
}

// step runs one PointSet through the engine and publishes the result.
func (s *Sampler) step(points pointing.PointSet) {
	res, err := s.cfg.Engine.Compute(points)
	outcome := pointing.Outcome(res, err)

	s.seq++
	t := recorder.Tick{
		Seq:        s.seq,
		CapturedAt: s.cfg.Clock.Now(),
		Points:     points,
		Result:     res,
		Outcome:    outcome,
	}

	if s.cfg.LogMisses && !res.Hit {
		if err != nil {
			logf("tick %d: %v", t.Seq, err)
		} else {
			logf("tick %d: miss at (%.3f, %.3f)", t.Seq, res.X, res.Y)
		}
	}

	var recordErr error
	if s.cfg.Recorder != nil {
		if recordErr = s.cfg.Recorder.RecordTick(t); recordErr != nil {
			logf("tick %d: failed to record: %v", t.Seq, recordErr)
		}
	}

	s.mu.Lock()
	s.stats.Ticks++
	if res.Hit {
		s.stats.Hits++
	}
	if recordErr != nil {
		s.stats.RecordErrors++
	}
	s.stats.Outcomes[outcome]++
	s.stats.Last = res
	s.mu.Unlock()

	if s.cfg.OnResult != nil {
		s.cfg.OnResult(t)
	}
}

// Stats returns a copy of the current counters.
func (s *Sampler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.stats
	out.Outcomes = maps.Clone(s.stats.Outcomes)
	return out
}

func (s *Sampler) logStatsLoop(ctx context.Context) {
	ticker := s.cfg.Clock.NewTicker(s.cfg.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			logf("%s", s.Stats())
		}
	}
}
