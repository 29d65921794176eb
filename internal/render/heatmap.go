// Package render draws the gaze heat map as a PNG and as an interactive
// HTML chart.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/gaze.report/internal/analysis"
	"github.com/banshee-data/gaze.report/internal/config"
)

// Title is the heat map title.
const Title = "Gaze Position Heat Map"

// Options controls the heat map geometry and density estimate.
type Options struct {
	SizeInches      float64
	DPI             int
	AxisLimit       float64
	BandwidthAdjust float64
	Threshold       float64
	Levels          int
	GridSize        int
	Palette         string
}

// OptionsFromConfig returns the render options configured in cfg.
func OptionsFromConfig(cfg *config.AnalysisConfig) Options {
	return Options{
		SizeInches:      cfg.GetPlotSizeInches(),
		DPI:             cfg.GetPlotDPI(),
		AxisLimit:       cfg.GetAxisLimit(),
		BandwidthAdjust: cfg.GetBandwidthAdjust(),
		Threshold:       cfg.GetDensityThreshold(),
		Levels:          cfg.GetLevels(),
		GridSize:        cfg.GetGridSize(),
		Palette:         cfg.GetPalette(),
	}
}

// DefaultOptions returns the options of an empty configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Empty())
}

var (
	shiftedColor = color.RGBA{A: 153}
	rawColor     = color.RGBA{B: 255, A: 77}
	targetColor  = color.Black
)

// Heatmap builds the gaze plot: a density layer over the shifted points,
// then the shifted points, the raw points and the target markers.
func Heatmap(r *analysis.Result, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = "Yaw (°)"
	p.Y.Label.Text = "Pitch (°)"
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if kde := NewKDE(r.ShiftedPoints, opts.BandwidthAdjust); kde != nil {
		grid := kde.Evaluate(opts.AxisLimit, opts.GridSize)
		if peak := grid.Max(); peak > 0 {
			pal, err := NewPalette(opts.Palette, opts.Levels)
			if err != nil {
				return nil, err
			}
			hm := plotter.NewHeatMap(grid, pal)
			hm.Min = opts.Threshold * peak
			hm.Max = peak
			hm.Underflow = color.Transparent
			p.Add(hm)
			cs := pal.Colors()
			p.Legend.Add("Labeled KDE", densityThumb{color: cs[len(cs)-1]})
		}
	}

	if len(r.ShiftedPoints) > 0 {
		s, err := pointScatter(r.ShiftedPoints, shiftedColor, vg.Points(1.2))
		if err != nil {
			return nil, fmt.Errorf("labeled points: %w", err)
		}
		p.Add(s)
		p.Legend.Add("Labeled Points", s)
	}

	if len(r.RawPoints) > 0 {
		s, err := pointScatter(r.RawPoints, rawColor, vg.Points(1))
		if err != nil {
			return nil, fmt.Errorf("raw points: %w", err)
		}
		p.Add(s)
		p.Legend.Add("All Raw Points", s)
	}

	if r.Catalog != nil {
		tgts := r.Catalog.Targets()
		xys := make(plotter.XYs, len(tgts))
		for i, t := range tgts {
			xys[i].X, xys[i].Y = t.Offset.X, t.Offset.Y
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("targets: %w", err)
		}
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		s.GlyphStyle.Color = targetColor
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add("Targets", s)
	}

	// Add widens the axes to fit the data, so the limits go last.
	p.X.Min, p.X.Max = -opts.AxisLimit, opts.AxisLimit
	p.Y.Min, p.Y.Max = -opts.AxisLimit, opts.AxisLimit
	return p, nil
}

// densityThumb is the legend swatch of the density layer, filled with the
// palette's peak colour.
type densityThumb struct {
	color color.Color
}

func (t densityThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(t.color, c.ClipPolygonY(pts))
}

func pointScatter(points []analysis.Point, c color.Color, radius vg.Length) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = radius
	return s, nil
}
