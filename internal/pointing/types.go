// Package pointing turns the up-to-four blobs reported by an IR positioning
// sensor into a normalised pointing coordinate.
//
// Each tick the sensor hands over a PointSet whose raw slot order is not
// stable. Classify sorts the valid blobs into the four corners of the marker
// quadrilateral, and Engine projects the sensor's optical centre into the
// basis spanned by the TopLeft->TopRight and TopLeft->BottomLeft edges.
package pointing

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sensor pixel space bounds.
const (
	SensorXMax = 1023
	SensorYMax = 767
	SizeMax    = 15
)

// NumPoints is the fixed number of tracked points reported per tick.
const NumPoints = 4

// SlotIndex is the raw reporting slot of a tracked point on the sensor.
// It is a wire artefact and carries no geometric meaning.
type SlotIndex uint8

// TrackedPoint is one blob as reported by the sensor.
type TrackedPoint struct {
	Slot  SlotIndex `json:"slot"`
	Valid bool      `json:"valid"`
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Size  int       `json:"size"`
}

// Validate reports whether a valid point lies inside sensor pixel space.
// Invalid points are not range checked.
func (p TrackedPoint) Validate() error {
	if p.Slot >= NumPoints {
		return fmt.Errorf("slot %d out of range [0,%d]", p.Slot, NumPoints-1)
	}
	if !p.Valid {
		return nil
	}
	if p.X < 0 || p.X > SensorXMax {
		return fmt.Errorf("slot %d: x %d out of range [0,%d]", p.Slot, p.X, SensorXMax)
	}
	if p.Y < 0 || p.Y > SensorYMax {
		return fmt.Errorf("slot %d: y %d out of range [0,%d]", p.Slot, p.Y, SensorYMax)
	}
	if p.Size < 0 || p.Size > SizeMax {
		return fmt.Errorf("slot %d: size %d out of range [0,%d]", p.Slot, p.Size, SizeMax)
	}
	return nil
}

// Vec returns the point position as a 2-D vector in sensor space.
func (p TrackedPoint) Vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// PointSet is the raw input for one sampling tick.
type PointSet [NumPoints]TrackedPoint

// ValidCount returns the number of points flagged valid.
func (ps PointSet) ValidCount() int {
	n := 0
	for _, p := range ps {
		if p.Valid {
			n++
		}
	}
	return n
}

// Quadrant labels a corner of the marker quadrilateral.
type Quadrant uint8

const (
	TopLeft Quadrant = iota
	TopRight
	BottomRight
	BottomLeft
)

// Quadrants lists every quadrant in index order.
var Quadrants = [NumPoints]Quadrant{TopLeft, TopRight, BottomRight, BottomLeft}

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomRight:
		return "bottom_right"
	case BottomLeft:
		return "bottom_left"
	default:
		return fmt.Sprintf("quadrant(%d)", uint8(q))
	}
}

// PointingResult is the normalised screen-space output for one tick.
// X and Y are only meaningful while Hit is true or was true previously;
// a failed tick clears Hit and leaves X and Y at their last computed value.
type PointingResult struct {
	Hit bool    `json:"hit"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}
