package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/gaze.report/internal/fsutil"
)

// EncodePNG draws p on a square canvas of opts.SizeInches at opts.DPI and
// writes it to w as PNG.
func EncodePNG(w io.Writer, p *plot.Plot, opts Options) error {
	side := vg.Length(opts.SizeInches) * vg.Inch
	c := vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG renders p to path on fsys.
func WritePNG(fsys fsutil.FileSystem, path string, p *plot.Plot, opts Options) error {
	return fsutil.WriteWith(fsys, path, func(w io.Writer) error {
		return EncodePNG(w, p, opts)
	})
}
