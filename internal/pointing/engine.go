package pointing

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// CoveragePolicy controls how much the engine trusts buffer slots that were
// not refreshed on the current tick.
type CoveragePolicy uint8

const (
	// CoverageStrict requires the current tick to populate TopLeft, TopRight
	// and BottomLeft, and all four quadrants when four points are valid.
	CoverageStrict CoveragePolicy = iota
	// CoverageRelaxed skips the per-tick coverage check and lets corners
	// carried over from earlier ticks fill in a missed detection.
	CoverageRelaxed
)

func (p CoveragePolicy) String() string {
	switch p {
	case CoverageStrict:
		return "strict"
	case CoverageRelaxed:
		return "relaxed"
	default:
		return fmt.Sprintf("coverage(%d)", uint8(p))
	}
}

// ParseCoveragePolicy parses "strict" or "relaxed". An empty string is strict.
func ParseCoveragePolicy(s string) (CoveragePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CoverageStrict, nil
	case "relaxed":
		return CoverageRelaxed, nil
	default:
		return CoverageStrict, fmt.Errorf("unknown coverage policy %q: expected strict or relaxed", s)
	}
}

// projectionCorners are the buffer slots read by the projection.
// BottomRight is deliberately unused.
var projectionCorners = [...]Quadrant{TopLeft, TopRight, BottomLeft}

// SensorCenter is the optical centre of the sensor in pixel space.
var SensorCenter = r2.Vec{X: SensorXMax / 2.0, Y: SensorYMax / 2.0}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Coverage CoveragePolicy
}

// Engine converts successive PointSets into PointingResults. It owns the
// ordered corner buffer and the previous result, both of which persist
// across ticks. An Engine is not safe for concurrent use.
type Engine struct {
	cfg     EngineConfig
	corners OrderedPoints
	prev    PointingResult
}

// NewEngine returns an engine with an empty corner buffer.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig { return e.cfg }

// Previous returns the result persisted by the last tick.
func (e *Engine) Previous() PointingResult { return e.prev }

// Corners returns a copy of the ordered corner buffer.
func (e *Engine) Corners() OrderedPoints { return e.corners }

// Compute runs one tick. The returned result is always usable; when err is
// non-nil it wraps ErrNoHit, Hit is false and X/Y are the previous values.
func (e *Engine) Compute(points PointSet) (PointingResult, error) {
	c, err := Classify(points)
	if err != nil {
		return e.miss(), err
	}

	if e.cfg.Coverage == CoverageStrict && !coverageComplete(c) {
		return e.miss(), ErrIncompleteQuadrantCoverage
	}

	e.corners.assignAll(points, c)

	for _, q := range projectionCorners {
		if !e.corners.At(q).Valid {
			return e.miss(), ErrMissingRequiredCorner
		}
	}

	s, t, err := project(
		e.corners.At(TopLeft).Vec(),
		e.corners.At(TopRight).Vec(),
		e.corners.At(BottomLeft).Vec(),
	)
	if err != nil {
		return e.miss(), err
	}

	e.prev = PointingResult{
		Hit: s >= 0 && s <= 1 && t >= 0 && t <= 1,
		X:   s,
		Y:   t,
	}
	return e.prev, nil
}

func (e *Engine) miss() PointingResult {
	e.prev.Hit = false
	return e.prev
}

// coverageComplete accepts a missing BottomRight when only three points are
// valid, since the projection never reads that corner.
func coverageComplete(c Classification) bool {
	if !c.Covers(projectionCorners[:]...) {
		return false
	}
	if c.ValidCount == NumPoints {
		return c.Covers(Quadrants[:]...)
	}
	return true
}

// project expresses SensorCenter in the basis u = p10-p00, v = p01-p00, with
// each axis normalised so the corner p10 maps to s=1 and p01 maps to t=1.
func project(p00, p10, p01 r2.Vec) (s, t float64, err error) {
	u := r2.Sub(p10, p00)
	v := r2.Sub(p01, p00)
	c := r2.Sub(SensorCenter, p00)

	lu, lv := r2.Norm(u), r2.Norm(v)
	if lu == 0 || lv == 0 {
		return 0, 0, ErrDegenerateGeometry
	}

	s = r2.Dot(c, r2.Unit(u)) / lu
	t = r2.Dot(c, r2.Unit(v)) / lv
	return s, t, nil
}
