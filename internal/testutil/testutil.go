// Package testutil provides shared test fixtures for packages that sit on
// top of the pointing engine.
package testutil

import (
	"testing"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
)

// Rect returns four valid markers at the corners of the axis-aligned
// rectangle (x0,y0)-(x1,y1), in slot order top-left, top-right,
// bottom-right, bottom-left.
func Rect(x0, y0, x1, y1 int) pointing.PointSet {
	return pointing.PointSet{
		{Slot: 0, Valid: true, X: x0, Y: y0, Size: 3},
		{Slot: 1, Valid: true, X: x1, Y: y0, Size: 3},
		{Slot: 2, Valid: true, X: x1, Y: y1, Size: 3},
		{Slot: 3, Valid: true, X: x0, Y: y1, Size: 3},
	}
}

// CenteredSquare is a marker frame around the sensor centre that projects
// to exactly (0.5, 0.5).
func CenteredSquare() pointing.PointSet {
	return Rect(311, 283, 712, 484)
}

// NoPoints returns a PointSet with every slot invalid.
func NoPoints() pointing.PointSet {
	return pointing.PointSet{{Slot: 0}, {Slot: 1}, {Slot: 2}, {Slot: 3}}
}

// MuteLogs silences the shared logger for the duration of the test.
func MuteLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })
}
