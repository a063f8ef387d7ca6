// Package charts turns backend payloads into renderable chart results. Each
// chart has a loader that fetches its endpoint, shapes the series and
// computes axis bounds; results land in a Registry keyed by chart ID so the
// orchestrator, the report builder and the web viewer all read the same
// state.
package charts

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ID names one of the dashboard's chart slots.
type ID string

const (
	Hourly        ID = "hourly"
	DayOfWeek     ID = "day_of_week"
	TopLocations  ID = "top_locations"
	AlcoholByHour ID = "alcohol_by_hour"
	VictimsByAge  ID = "victims_by_age"
	OffenseType   ID = "offense_type"
	Season        ID = "season"
	OverallTrend  ID = "overall_trend"
)

// AllIDs is the display order of the dashboard grid, which is also the
// order charts appear in the PDF report.
var AllIDs = []ID{
	Hourly, DayOfWeek, TopLocations, AlcoholByHour,
	VictimsByAge, OffenseType, Season, OverallTrend,
}

// titles are the historical display titles; forecast variants derive
// theirs from these via forecastTitle.
var titles = map[ID]string{
	Hourly:        "Accidents by Hour of Day",
	DayOfWeek:     "Accidents by Day of Week",
	TopLocations:  "Top Accident Locations",
	AlcoholByHour: "Alcohol Involvement by Hour",
	VictimsByAge:  "Victims by Age Group",
	OffenseType:   "Accidents by Offense Type",
	Season:        "Accidents by Season",
	OverallTrend:  "Accidents Over Time",
}

// Title returns the display title for a chart slot.
func Title(id ID) string {
	return titles[id]
}

// ParseID maps a slot name back to its ID, for URL routing.
func ParseID(s string) (ID, bool) {
	for _, id := range AllIDs {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

// Kind selects the chart shape a Result renders as.
type Kind int

const (
	KindBar Kind = iota
	KindHorizontalBar
	KindLine
	KindPie
	KindStackedBar
)

// Series is one named trace within a chart.
type Series struct {
	Name   string
	Values []float64
	// Dashed marks forecast traces so they render distinct from history.
	Dashed bool
}

// Result is the renderable state of one chart slot.
type Result struct {
	ID    ID
	Kind  Kind
	Title string

	Labels []string
	Series []Series

	// YMax is the bar/line axis ceiling, padded above the tallest value so
	// labels stay inside the plot area. Zero means auto.
	YMax float64

	// CenterText is the pie-hole annotation (the series total).
	CenterText string

	// Empty is set when the endpoint succeeded but returned no rows;
	// Message then holds the text to show in place of the plot.
	Empty   bool
	Message string
}

// axis headroom above the tallest bar
const headroom = 1.15

// NoDatasetMessage replaces a chart when the backend has no table yet.
const NoDatasetMessage = "No dataset uploaded. Go to Manage Data and upload an accident file to populate this chart."

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := floats.Max(vals)
	if m < 0 {
		return 0
	}
	return m
}

func sumOf(vals []float64) float64 {
	return floats.Sum(vals)
}

// FormatModelName turns a backend model key like "random_forest" into a
// display name like "Random Forest".
func FormatModelName(model string) string {
	parts := strings.Split(model, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func forecastTitle(base, model string, horizon int) string {
	return fmt.Sprintf("%s Forecast (%s, next %d months)", base, FormatModelName(model), horizon)
}
