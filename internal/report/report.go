// Package report summarises recorded probe sessions and renders them as
// HTML charts or PNG plots.
package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
)

// Summary aggregates the ticks of one session.
type Summary struct {
	Ticks    int
	Hits     int
	Outcomes map[string]int

	// MeanX and MeanY average the pointing position over hit ticks only.
	MeanX, MeanY float64

	First, Last time.Time
}

// HitRate returns the fraction of ticks that produced a hit.
func (s Summary) HitRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Ticks)
}

// Duration is the time between the first and last tick.
func (s Summary) Duration() time.Duration {
	return s.Last.Sub(s.First)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticks:    %d over %s\n", s.Ticks, s.Duration())
	fmt.Fprintf(&b, "hits:     %d (%.1f%%)\n", s.Hits, 100*s.HitRate())
	if s.Hits > 0 {
		fmt.Fprintf(&b, "mean hit: (%.3f, %.3f)\n", s.MeanX, s.MeanY)
	}
	for _, k := range slices.Sorted(maps.Keys(s.Outcomes)) {
		fmt.Fprintf(&b, "  %-20s %d\n", k, s.Outcomes[k])
	}
	return b.String()
}

// Summarize aggregates ticks, which need not be sorted.
func Summarize(ticks []recorder.Tick) Summary {
	s := Summary{Outcomes: make(map[string]int)}
	var sumX, sumY float64
	for i, t := range ticks {
		s.Ticks++
		s.Outcomes[t.Outcome]++
		if t.Result.Hit {
			s.Hits++
			sumX += t.Result.X
			sumY += t.Result.Y
		}
		if i == 0 || t.CapturedAt.Before(s.First) {
			s.First = t.CapturedAt
		}
		if i == 0 || t.CapturedAt.After(s.Last) {
			s.Last = t.CapturedAt
		}
	}
	if s.Hits > 0 {
		s.MeanX = sumX / float64(s.Hits)
		s.MeanY = sumY / float64(s.Hits)
	}
	return s
}

// split partitions the projected positions into hits and in-plane misses.
// Ticks that failed before projection carry stale coordinates and are
// left out.
func split(ticks []recorder.Tick) (hits, misses []pointing.PointingResult) {
	for _, t := range ticks {
		switch t.Outcome {
		case pointing.OutcomeHit:
			hits = append(hits, t.Result)
		case pointing.OutcomeMiss:
			misses = append(misses, t.Result)
		}
	}
	return hits, misses
}
