package sensor

import (
	"context"
	"io"

	"github.com/banshee-data/irpointer/internal/pointing"
)

// Replay yields a fixed sequence of recorded point sets, then io.EOF.
type Replay struct {
	sets []pointing.PointSet
	pos  int
}

// NewReplay returns a source over sets in order.
func NewReplay(sets []pointing.PointSet) *Replay {
	return &Replay{sets: sets}
}

// Next returns the next recorded point set.
func (r *Replay) Next(ctx context.Context) (pointing.PointSet, error) {
	if err := ctx.Err(); err != nil {
		return pointing.PointSet{}, err
	}
	if r.pos >= len(r.sets) {
		return pointing.PointSet{}, io.EOF
	}
	ps := r.sets[r.pos]
	r.pos++
	return ps, nil
}

// Remaining returns the number of point sets not yet returned.
func (r *Replay) Remaining() int { return len(r.sets) - r.pos }

// Close is a no-op.
func (r *Replay) Close() error { return nil }
