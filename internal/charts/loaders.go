package charts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rtaverse/dashboard/internal/dashapi"
	"github.com/rtaverse/dashboard/internal/filter"
)

// NoFilterDataMessage replaces a chart when the current filters match no
// rows at all.
const NoFilterDataMessage = "No accidents match the selected filters."

// Loader fetches and shapes one chart slot.
type Loader func(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error)

// Loaders maps every chart slot to its loader.
var Loaders = map[ID]Loader{
	Hourly:        LoadHourly,
	DayOfWeek:     LoadDayOfWeek,
	TopLocations:  LoadTopLocations,
	AlcoholByHour: LoadAlcoholByHour,
	VictimsByAge:  LoadVictimsByAge,
	OffenseType:   LoadOffenseType,
	Season:        LoadSeason,
	OverallTrend:  LoadOverallTrend,
}

func chartQuery(snap filter.Snapshot, mode filter.Mode) string {
	q := snap.Query()
	if mode.Forecast {
		q = dashapi.ForecastQuery(q, mode.Model, mode.Horizon)
	}
	return q
}

// noDataResult converts the backend's missing-table error into a showable
// placeholder instead of a load failure. Other errors pass through.
func noDataResult(id ID, title string, err error) (*Result, error) {
	if errors.Is(err, dashapi.ErrNoDataset) {
		return &Result{ID: id, Title: title, Empty: true, Message: NoDatasetMessage}, nil
	}
	return nil, err
}

func emptyResult(id ID, title string) *Result {
	return &Result{ID: id, Title: title, Empty: true, Message: NoFilterDataMessage}
}

// LoadHourly is the accidents-by-hour bar chart. In forecast mode it
// becomes a line chart with the forecast trace dashed.
func LoadHourly(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(Hourly)
	if mode.Forecast {
		data, err := api.ForecastHourly(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(Hourly, title, err)
		}
		return forecastLine(Hourly, title, data), nil
	}

	data, err := api.AccidentsByHour(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(Hourly, title, err)
	}
	if len(data.Hours) == 0 {
		return emptyResult(Hourly, title), nil
	}
	labels := make([]string, len(data.Hours))
	for i, h := range data.Hours {
		labels[i] = fmt.Sprintf("%02d:00", h)
	}
	return &Result{
		ID:     Hourly,
		Kind:   KindBar,
		Title:  title,
		Labels: labels,
		Series: []Series{{Name: "Accidents", Values: data.Counts}},
		YMax:   maxOf(data.Counts) * headroom,
	}, nil
}

// LoadDayOfWeek pairs an accident-count bar with an average-victims line.
func LoadDayOfWeek(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(DayOfWeek)
	if mode.Forecast {
		data, err := api.ForecastDayOfWeek(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(DayOfWeek, title, err)
		}
		if len(data.Labels) == 0 {
			return emptyResult(DayOfWeek, title), nil
		}
		return &Result{
			ID:     DayOfWeek,
			Kind:   KindBar,
			Title:  forecastTitle(title, data.ModelUsed, data.Horizon),
			Labels: data.Labels,
			Series: []Series{
				{Name: "Accidents", Values: data.HistoricalCounts},
				{Name: "Forecast Accidents", Values: data.ForecastCounts, Dashed: true},
				{Name: "Avg Victims", Values: data.HistoricalAvgVictims},
				{Name: "Forecast Avg Victims", Values: data.ForecastAvgVictims, Dashed: true},
			},
			YMax: maxOf(append(append([]float64{}, data.HistoricalCounts...), data.ForecastCounts...)) * headroom,
		}, nil
	}

	data, err := api.AccidentsByDay(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(DayOfWeek, title, err)
	}
	if len(data.Days) == 0 {
		return emptyResult(DayOfWeek, title), nil
	}
	return &Result{
		ID:     DayOfWeek,
		Kind:   KindBar,
		Title:  title,
		Labels: data.Days,
		Series: []Series{
			{Name: "Accidents", Values: data.Counts},
			{Name: "Avg Victims", Values: data.AvgVictims},
		},
		YMax: maxOf(data.Counts) * headroom,
	}, nil
}

// LoadTopLocations is the horizontal bar of the most accident-prone
// barangays, busiest at the top.
func LoadTopLocations(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(TopLocations)
	if mode.Forecast {
		data, err := api.ForecastTopBarangays(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(TopLocations, title, err)
		}
		return forecastBars(TopLocations, title, data), nil
	}

	data, err := api.TopBarangays(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(TopLocations, title, err)
	}
	if len(data.Names) == 0 {
		return emptyResult(TopLocations, title), nil
	}

	names := append([]string{}, data.Names...)
	counts := append([]float64{}, data.Counts...)
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	// ascending, so the horizontal bar renders the busiest barangay on top
	sort.SliceStable(idx, func(a, b int) bool { return counts[idx[a]] < counts[idx[b]] })
	sortedNames := make([]string, len(idx))
	sortedCounts := make([]float64, len(idx))
	for i, j := range idx {
		sortedNames[i] = names[j]
		sortedCounts[i] = counts[j]
	}

	return &Result{
		ID:     TopLocations,
		Kind:   KindHorizontalBar,
		Title:  title,
		Labels: sortedNames,
		Series: []Series{{Name: "Accidents", Values: sortedCounts}},
		YMax:   maxOf(sortedCounts) * headroom,
	}, nil
}

// LoadAlcoholByHour stacks yes/no/unknown alcohol involvement percentages
// per hour.
func LoadAlcoholByHour(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(AlcoholByHour)
	if mode.Forecast {
		data, err := api.ForecastAlcoholByHour(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(AlcoholByHour, title, err)
		}
		if len(data.Hours) == 0 {
			return emptyResult(AlcoholByHour, title), nil
		}
		labels := hourLabels(data.Hours)
		return &Result{
			ID:     AlcoholByHour,
			Kind:   KindStackedBar,
			Title:  forecastTitle(title, data.ModelUsed, data.Horizon),
			Labels: labels,
			Series: []Series{
				{Name: "Alcohol Involved", Values: data.ForecastYesPct, Dashed: true},
				{Name: "No Alcohol", Values: data.ForecastNoPct, Dashed: true},
				{Name: "Unknown", Values: data.ForecastUnknownPct, Dashed: true},
			},
			YMax: 100,
		}, nil
	}

	data, err := api.AlcoholByHour(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(AlcoholByHour, title, err)
	}
	if len(data.Hours) == 0 {
		return emptyResult(AlcoholByHour, title), nil
	}
	return &Result{
		ID:     AlcoholByHour,
		Kind:   KindStackedBar,
		Title:  title,
		Labels: hourLabels(data.Hours),
		Series: []Series{
			{Name: "Alcohol Involved", Values: data.YesPct},
			{Name: "No Alcohol", Values: data.NoPct},
			{Name: "Unknown", Values: data.UnknownPct},
		},
		YMax: 100,
	}, nil
}

// LoadVictimsByAge buckets victims into age groups.
func LoadVictimsByAge(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(VictimsByAge)
	if mode.Forecast {
		data, err := api.ForecastVictimsByAge(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(VictimsByAge, title, err)
		}
		return forecastBars(VictimsByAge, title, data), nil
	}

	data, err := api.VictimsByAge(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(VictimsByAge, title, err)
	}
	if len(data.Labels) == 0 {
		return emptyResult(VictimsByAge, title), nil
	}
	return &Result{
		ID:     VictimsByAge,
		Kind:   KindBar,
		Title:  title,
		Labels: data.Labels,
		Series: []Series{{Name: "Victims", Values: data.Values}},
		YMax:   maxOf(data.Values) * headroom,
	}, nil
}

// LoadOffenseType is a donut of offense categories with the grand total in
// the hole.
func LoadOffenseType(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(OffenseType)
	if mode.Forecast {
		data, err := api.ForecastOffenseTypes(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(OffenseType, title, err)
		}
		return forecastBars(OffenseType, title, data), nil
	}

	data, err := api.OffenseTypes(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(OffenseType, title, err)
	}
	return pieResult(OffenseType, title, data), nil
}

// LoadSeason is a donut of dry/wet season shares.
func LoadSeason(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(Season)
	if mode.Forecast {
		data, err := api.ForecastBySeason(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(Season, title, err)
		}
		return forecastBars(Season, title, data), nil
	}

	data, err := api.BySeason(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(Season, title, err)
	}
	return pieResult(Season, title, data), nil
}

// LoadOverallTrend is the monthly accident count timeseries.
func LoadOverallTrend(ctx context.Context, api *dashapi.Client, snap filter.Snapshot, mode filter.Mode) (*Result, error) {
	title := Title(OverallTrend)
	if mode.Forecast {
		data, err := api.ForecastOverallTimeseries(ctx, chartQuery(snap, mode))
		if err != nil {
			return noDataResult(OverallTrend, title, err)
		}
		return forecastLine(OverallTrend, title, data), nil
	}

	data, err := api.OverallTimeseries(ctx, chartQuery(snap, mode))
	if err != nil {
		return noDataResult(OverallTrend, title, err)
	}
	if len(data.Dates) == 0 {
		return emptyResult(OverallTrend, title), nil
	}
	return &Result{
		ID:     OverallTrend,
		Kind:   KindLine,
		Title:  title,
		Labels: data.Dates,
		Series: []Series{{Name: "Accidents", Values: data.Counts}},
		YMax:   maxOf(data.Counts) * headroom,
	}, nil
}

func hourLabels(hours []int) []string {
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = fmt.Sprintf("%02d:00", h)
	}
	return labels
}

func pieResult(id ID, title string, data *dashapi.LabelValueData) *Result {
	if len(data.Labels) == 0 {
		return emptyResult(id, title)
	}
	total := sumOf(data.Values)
	if total == 0 {
		return emptyResult(id, title)
	}
	return &Result{
		ID:         id,
		Kind:       KindPie,
		Title:      title,
		Labels:     data.Labels,
		Series:     []Series{{Name: title, Values: data.Values}},
		CenterText: strconv.FormatFloat(total, 'f', -1, 64),
	}
}

func forecastLine(id ID, base string, data *dashapi.ForecastSeries) *Result {
	if len(data.Labels) == 0 {
		return emptyResult(id, base)
	}
	return &Result{
		ID:     id,
		Kind:   KindLine,
		Title:  forecastTitle(base, data.ModelUsed, data.Horizon),
		Labels: data.Labels,
		Series: []Series{
			{Name: "Historical", Values: data.Historical},
			{Name: "Forecast", Values: data.Forecast, Dashed: true},
		},
		YMax: maxOf(append(append([]float64{}, data.Historical...), data.Forecast...)) * headroom,
	}
}

func forecastBars(id ID, base string, data *dashapi.ForecastSeries) *Result {
	if len(data.Labels) == 0 {
		return emptyResult(id, base)
	}
	return &Result{
		ID:     id,
		Kind:   KindBar,
		Title:  forecastTitle(base, data.ModelUsed, data.Horizon),
		Labels: data.Labels,
		Series: []Series{
			{Name: "Historical", Values: data.Historical},
			{Name: "Forecast", Values: data.Forecast, Dashed: true},
		},
		YMax: maxOf(append(append([]float64{}, data.Historical...), data.Forecast...)) * headroom,
	}
}
