package sensor

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/irpointer/internal/pointing"
)

// Synthetic generates marker quadrilaterals that drift and rotate around the
// sensor centre, the way a hand-held pointer sees a fixed marker frame.
// Raw slots are shuffled every tick and markers drop out at random.
type Synthetic struct {
	seq uint64
	rng *rand.Rand

	// Configuration
	HalfWidth   float64 // pixels, half the marker frame width
	HalfHeight  float64 // pixels, half the marker frame height
	WanderRange float64 // pixels, radius of the frame centre's circular path
	WanderRate  float64 // radians per tick along that path
	MaxTilt     float64 // radians, peak in-plane rotation
	Jitter      float64 // pixels, uniform noise added to each marker
	Dropout     float64 // probability that a marker is not reported
}

// NewSynthetic creates a generator with a deterministic seed.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		rng:         rand.New(rand.NewSource(seed)),
		HalfWidth:   260,
		HalfHeight:  180,
		WanderRange: 150,
		WanderRate:  0.02,
		MaxTilt:     0.15,
		Jitter:      1.5,
		Dropout:     0.05,
	}
}

// Next returns the next synthetic tick.
func (g *Synthetic) Next(ctx context.Context) (pointing.PointSet, error) {
	if err := ctx.Err(); err != nil {
		return pointing.PointSet{}, err
	}
	g.seq++
	return g.frame(float64(g.seq)), nil
}

func (g *Synthetic) frame(step float64) pointing.PointSet {
	phase := step * g.WanderRate
	centre := r2.Add(pointing.SensorCenter, r2.Vec{
		X: g.WanderRange * math.Cos(phase),
		Y: g.WanderRange * math.Sin(phase) * 0.75,
	})
	tilt := g.MaxTilt * math.Sin(phase*0.5)
	rot := r2.NewRotation(tilt, r2.Vec{})

	corners := [pointing.NumPoints]r2.Vec{
		{X: -g.HalfWidth, Y: -g.HalfHeight},
		{X: g.HalfWidth, Y: -g.HalfHeight},
		{X: g.HalfWidth, Y: g.HalfHeight},
		{X: -g.HalfWidth, Y: g.HalfHeight},
	}

	var ps pointing.PointSet
	order := g.rng.Perm(pointing.NumPoints)
	for i, c := range corners {
		slot := order[i]
		p := r2.Add(centre, rot.Rotate(c))
		p.X += (g.rng.Float64()*2 - 1) * g.Jitter
		p.Y += (g.rng.Float64()*2 - 1) * g.Jitter

		tp := pointing.TrackedPoint{
			Slot:  pointing.SlotIndex(slot),
			Valid: g.rng.Float64() >= g.Dropout,
			X:     int(math.Round(p.X)),
			Y:     int(math.Round(p.Y)),
			Size:  2 + g.rng.Intn(5),
		}
		if tp.Validate() != nil {
			tp.Valid = false
		}
		if !tp.Valid {
			tp.X, tp.Y, tp.Size = 0, 0, 0
		}
		ps[slot] = tp
	}
	return ps
}

// Close is a no-op.
func (g *Synthetic) Close() error { return nil }
