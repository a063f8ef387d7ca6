package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rtaverse/dashboard/internal/charts"
)

// raster dimensions keep the dashboard's 16:9 card aspect
const (
	rasterWidth  = 8 * vg.Inch
	rasterHeight = 4.5 * vg.Inch
)

var seriesPalette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255},
}

// renderPNG rasterizes a chart result for embedding in the PDF. Pie slots
// render as horizontal bars of the same shares so the printed page stays
// monochrome-friendly.
func renderPNG(res *charts.Result) ([]byte, error) {
	p := plot.New()
	p.Title.Text = res.Title

	switch res.Kind {
	case charts.KindLine:
		if err := addLines(p, res); err != nil {
			return nil, err
		}
	case charts.KindPie, charts.KindHorizontalBar:
		if err := addBars(p, res, true); err != nil {
			return nil, err
		}
	default:
		if err := addBars(p, res, false); err != nil {
			return nil, err
		}
	}

	if res.YMax > 0 {
		p.Y.Max = res.YMax
	}
	p.Legend.Top = true
	p.Legend.Left = false

	wt, err := p.WriterTo(rasterWidth, rasterHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", res.ID, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", res.ID, err)
	}
	return buf.Bytes(), nil
}

func addLines(p *plot.Plot, res *charts.Result) error {
	for i, s := range res.Series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j] = plotter.XY{X: float64(j), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line series %q: %w", s.Name, err)
		}
		line.Color = seriesPalette[i%len(seriesPalette)]
		line.Width = vg.Points(1.5)
		if s.Dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.NominalX(thinLabels(res.Labels)...)
	return nil
}

func addBars(p *plot.Plot, res *charts.Result, horizontal bool) error {
	width := vg.Points(16)
	if len(res.Series) > 1 {
		width = vg.Points(10)
	}

	var prev *plotter.BarChart
	for i, s := range res.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("bar series %q: %w", s.Name, err)
		}
		bars.Color = seriesPalette[i%len(seriesPalette)]
		bars.LineStyle.Width = 0
		bars.Horizontal = horizontal
		if res.Kind == charts.KindStackedBar && prev != nil {
			bars.StackOn(prev)
		} else if prev != nil {
			bars.Offset = width * vg.Length(i)
		}
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
		prev = bars
	}
	if horizontal {
		p.NominalY(res.Labels...)
	} else {
		p.NominalX(thinLabels(res.Labels)...)
	}
	return nil
}

// thinLabels blanks crowded x labels so long timeseries stay legible,
// keeping roughly a dozen ticks.
func thinLabels(labels []string) []string {
	if len(labels) <= 14 {
		return labels
	}
	step := (len(labels) + 13) / 14
	out := make([]string, len(labels))
	for i, l := range labels {
		if i%step == 0 {
			out[i] = l
		}
	}
	return out
}
