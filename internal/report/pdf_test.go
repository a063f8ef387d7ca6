package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/dashapi"
)

func barResult(id charts.ID, title string) *charts.Result {
	return &charts.Result{
		ID:     id,
		Kind:   charts.KindBar,
		Title:  title,
		Labels: []string{"Mon", "Tue", "Wed"},
		Series: []charts.Series{{Name: "Accidents", Values: []float64{3, 7, 5}}},
		YMax:   7 * 1.15,
	}
}

func TestBuildProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := Build(&buf, Params{
		FilterSummary: "Gender: male; Start: 2024-01; End: 2024-12",
		Overview: &dashapi.KPIData{
			TotalAccidents:         120,
			TotalVictims:           180,
			AvgVictimsPerAccident:  1.5,
			AlcoholInvolvementRate: 22.5,
		},
		Gender: &dashapi.GenderKPIData{MaleCount: 110, FemaleCount: 60, UnknownCount: 10},
		Charts: []*charts.Result{
			barResult(charts.Hourly, "Accidents by Hour of Day"),
			barResult(charts.DayOfWeek, "Accidents by Day of Week"),
			{
				ID:     charts.OverallTrend,
				Kind:   charts.KindLine,
				Title:  "Accidents Over Time",
				Labels: []string{"2024-01", "2024-02", "2024-03"},
				Series: []charts.Series{{Name: "Accidents", Values: []float64{10, 14, 9}}},
			},
		},
		GeneratedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF document")
	assert.Greater(t, buf.Len(), 1000)
}

func TestBuildSkipsEmptyCharts(t *testing.T) {
	var with, without bytes.Buffer

	require.NoError(t, Build(&with, Params{
		Charts: []*charts.Result{barResult(charts.Hourly, "Accidents by Hour of Day")},
	}))
	require.NoError(t, Build(&without, Params{
		Charts: []*charts.Result{
			{ID: charts.Hourly, Empty: true, Message: "no data"},
		},
	}))

	assert.Greater(t, with.Len(), without.Len())
}

func TestRenderPNG(t *testing.T) {
	png, err := renderPNG(barResult(charts.Hourly, "Accidents by Hour of Day"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRenderPNGPieFallsBackToBars(t *testing.T) {
	png, err := renderPNG(&charts.Result{
		ID:         charts.Season,
		Kind:       charts.KindPie,
		Title:      "Accidents by Season",
		Labels:     []string{"Dry", "Wet"},
		Series:     []charts.Series{{Name: "Accidents by Season", Values: []float64{60, 40}}},
		CenterText: "100",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestThinLabels(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = "m"
	}
	out := thinLabels(labels)
	require.Len(t, out, 30)

	kept := 0
	for _, l := range out {
		if l != "" {
			kept++
		}
	}
	assert.LessOrEqual(t, kept, 15)
	assert.NotEmpty(t, out[0])
}
