// Package sensor supplies per-tick PointSets to the pointing engine.
//
// The IR camera itself sits behind a bridge (a microcontroller that owns
// the bus and register setup) and reports one JSON tick record per line
// over a serial link. Synthetic and Replay sources produce the same
// PointSets without hardware.
package sensor

import (
	"context"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
)

var logf = monitoring.Tagged("sensor")

// Source yields one PointSet per call. Finite sources return io.EOF when
// exhausted.
type Source interface {
	Next(ctx context.Context) (pointing.PointSet, error)
	Close() error
}
