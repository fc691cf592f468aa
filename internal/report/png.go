package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
)

var (
	hitColor   = color.RGBA{R: 31, G: 158, B: 137, A: 255}
	missColor  = color.RGBA{R: 220, G: 80, B: 60, A: 255}
	frameColor = color.Gray{Y: 120}
)

// RenderPNG saves a scatter plot of pointing positions to path. The image
// format follows the file extension.
func RenderPNG(path, title string, ticks []recorder.Tick) error {
	sum := Summarize(ticks)
	hits, misses := split(ticks)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (hit rate %.1f%%)", title, 100*sum.HitRate())
	p.X.Label.Text = "x"
	p.Y.Label.Text = "1 - y"
	p.X.Min, p.X.Max = -0.5, 1.5
	p.Y.Min, p.Y.Max = -0.5, 1.5
	p.Add(plotter.NewGrid())

	frame, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}})
	if err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}
	frame.Color = frameColor
	frame.Width = vg.Points(1)
	p.Add(frame)

	for _, series := range []struct {
		name    string
		results []pointing.PointingResult
		color   color.Color
	}{
		{pointing.OutcomeHit, hits, hitColor},
		{pointing.OutcomeMiss, misses, missColor},
	} {
		if len(series.results) == 0 {
			continue
		}
		s, err := plotter.NewScatter(plotXYs(series.results))
		if err != nil {
			return fmt.Errorf("failed to create %s scatter: %w", series.name, err)
		}
		s.GlyphStyle.Color = series.color
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add(series.name, s)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// plotXYs flips y so the plots read like the screen, where y grows downwards.
func plotXYs(results []pointing.PointingResult) plotter.XYs {
	xys := make(plotter.XYs, len(results))
	for i, r := range results {
		xys[i] = plotter.XY{X: r.X, Y: 1 - r.Y}
	}
	return xys
}
