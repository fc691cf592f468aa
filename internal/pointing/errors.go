package pointing

import (
	"errors"
	"fmt"
)

// ErrNoHit is the parent of every non-fatal reason a tick produced no hit.
var ErrNoHit = errors.New("no pointing hit")

var (
	// ErrInsufficientPoints is returned when fewer than three points are valid.
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient valid points", ErrNoHit)

	// ErrIncompleteQuadrantCoverage is returned when the valid points do not
	// populate the quadrants the projection depends on this tick.
	ErrIncompleteQuadrantCoverage = fmt.Errorf("%w: incomplete quadrant coverage", ErrNoHit)

	// ErrMissingRequiredCorner is returned when a TopLeft, TopRight or
	// BottomLeft buffer slot holds no valid point.
	ErrMissingRequiredCorner = fmt.Errorf("%w: missing required corner", ErrNoHit)

	// ErrDegenerateGeometry is returned when a basis edge has zero length.
	ErrDegenerateGeometry = fmt.Errorf("%w: degenerate geometry", ErrNoHit)
)

// Outcome labels.
const (
	OutcomeHit                = "hit"
	OutcomeMiss               = "miss"
	OutcomeInsufficientPoints = "insufficient_points"
	OutcomeIncompleteCoverage = "incomplete_coverage"
	OutcomeMissingCorner      = "missing_corner"
	OutcomeDegenerateGeometry = "degenerate_geometry"
	OutcomeUnknown            = "unknown"
)

// Outcome maps the result of Engine.Compute to a stable label suitable for
// counters and storage. A nil error with Hit false means the sensor centre
// fell outside the marker quadrilateral.
func Outcome(res PointingResult, err error) string {
	switch {
	case err == nil && res.Hit:
		return OutcomeHit
	case err == nil:
		return OutcomeMiss
	case errors.Is(err, ErrInsufficientPoints):
		return OutcomeInsufficientPoints
	case errors.Is(err, ErrIncompleteQuadrantCoverage):
		return OutcomeIncompleteCoverage
	case errors.Is(err, ErrMissingRequiredCorner):
		return OutcomeMissingCorner
	case errors.Is(err, ErrDegenerateGeometry):
		return OutcomeDegenerateGeometry
	default:
		return OutcomeUnknown
	}
}
