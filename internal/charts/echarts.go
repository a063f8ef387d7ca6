package charts

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart builds the go-echarts renderer for a result. Empty results render
// as a bar chart shell carrying the placeholder message as subtitle so the
// slot stays visible in the grid.
func (res *Result) Chart() components.Charter {
	if res.Empty {
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: res.Title, Subtitle: res.Message}),
		)
		return bar
	}

	switch res.Kind {
	case KindPie:
		return res.pieChart()
	case KindLine:
		return res.lineChart()
	case KindHorizontalBar:
		return res.barChart(true)
	case KindStackedBar:
		return res.stackedBarChart()
	default:
		return res.barChart(false)
	}
}

func (res *Result) globalOptions(c interface {
	SetGlobalOptions(options ...charts.GlobalOpts) *charts.RectChart
}, extra ...charts.GlobalOpts) {
	base := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(res.Series) > 1)}),
	}
	c.SetGlobalOptions(append(base, extra...)...)
}

func (res *Result) barChart(horizontal bool) components.Charter {
	bar := charts.NewBar()
	var axisOpts []charts.GlobalOpts
	if res.YMax > 0 && !horizontal {
		axisOpts = append(axisOpts, charts.WithYAxisOpts(opts.YAxis{Max: res.YMax}))
	}
	res.globalOptions(bar, axisOpts...)

	bar.SetXAxis(res.Labels)
	for _, s := range res.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data)
	}
	if horizontal {
		bar.XYReversal()
	}
	return bar
}

func (res *Result) stackedBarChart() components.Charter {
	bar := charts.NewBar()
	res.globalOptions(bar, charts.WithYAxisOpts(opts.YAxis{Max: res.YMax}))
	bar.SetXAxis(res.Labels)
	for _, s := range res.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data, charts.WithBarChartOpts(opts.BarChart{Stack: "pct"}))
	}
	return bar
}

func (res *Result) lineChart() components.Charter {
	line := charts.NewLine()
	var axisOpts []charts.GlobalOpts
	if res.YMax > 0 {
		axisOpts = append(axisOpts, charts.WithYAxisOpts(opts.YAxis{Max: res.YMax}))
	}
	res.globalOptions(line, axisOpts...)

	line.SetXAxis(res.Labels)
	for _, s := range res.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		}
		if s.Dashed {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		}
		line.AddSeries(s.Name, data, seriesOpts...)
	}
	return line
}

func (res *Result) pieChart() components.Charter {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title, Subtitle: "Total: " + res.CenterText}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	data := make([]opts.PieData, len(res.Labels))
	for i, label := range res.Labels {
		data[i] = opts.PieData{Name: label, Value: res.Series[0].Values[i]}
	}
	pie.AddSeries(res.Title, data, charts.WithPieChartOpts(opts.PieChart{
		Radius: []string{"40%", "70%"},
	}))
	return pie
}

// RenderPage writes all given results as a single scrollable HTML page.
func RenderPage(w io.Writer, results []*Result) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	for _, res := range results {
		page.AddCharts(res.Chart())
	}
	return page.Render(w)
}

// RenderZoom writes a single result as its own centered page, used by the
// per-chart zoom view.
func RenderZoom(w io.Writer, res *Result) error {
	page := components.NewPage()
	page.SetLayout(components.PageCenterLayout)
	page.AddCharts(res.Chart())
	return page.Render(w)
}
