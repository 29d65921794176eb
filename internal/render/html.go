package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/gaze.report/internal/analysis"
)

// WriteHTML writes an interactive scatter chart of r: shifted points, raw
// points and target positions on the same axes as the PNG.
func WriteHTML(w io.Writer, r *analysis.Result, o Options) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: Title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    Title,
			Subtitle: fmt.Sprintf("labeled=%d raw=%d unmatched=%d", r.Matched(), len(r.RawPoints), r.Unmatched+r.NoObservation),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: -o.AxisLimit, Max: o.AxisLimit, Name: "Yaw (°)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: -o.AxisLimit, Max: o.AxisLimit, Name: "Pitch (°)", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("Labeled Points", scatterData(r.ShiftedPoints),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#000000", Opacity: opts.Float(0.6)}))
	scatter.AddSeries("All Raw Points", scatterData(r.RawPoints),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#0000ff", Opacity: opts.Float(0.3)}))

	if r.Catalog != nil {
		tgts := r.Catalog.Targets()
		data := make([]opts.ScatterData, 0, len(tgts))
		for _, t := range tgts {
			data = append(data, opts.ScatterData{Name: t.Key, Value: []interface{}{t.Offset.X, t.Offset.Y}})
		}
		scatter.AddSeries("Targets", data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render html chart: %w", err)
	}
	return nil
}

func scatterData(points []analysis.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	return data
}
