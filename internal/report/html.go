package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
)

// RenderHTML writes a page with a scatter of pointing positions and a bar
// chart of tick outcomes.
func RenderHTML(w io.Writer, title string, ticks []recorder.Tick) error {
	sum := Summarize(ticks)
	hits, misses := split(ticks)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "800px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Pointing position",
			Subtitle: fmt.Sprintf("%s ticks=%d hit_rate=%.1f%%", title, sum.Ticks, 100*sum.HitRate()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -0.5, Max: 1.5, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -0.5, Max: 1.5, Name: "1 - y", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries(pointing.OutcomeHit, scatterData(hits), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries(pointing.OutcomeMiss, scatterData(misses), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	keys := slices.Sorted(maps.Keys(sum.Outcomes))
	counts := make([]opts.BarData, len(keys))
	for i, k := range keys {
		counts[i] = opts.BarData{Value: sum.Outcomes[k]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "800px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Outcomes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(keys).AddSeries("ticks", counts,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(scatter, bar)
	return page.Render(w)
}

func scatterData(results []pointing.PointingResult) []opts.ScatterData {
	xys := plotXYs(results)
	data := make([]opts.ScatterData, len(xys))
	for i, xy := range xys {
		data[i] = opts.ScatterData{Value: []interface{}{xy.X, xy.Y}}
	}
	return data
}
