package dashapi

// HourlyData is the historical accidents-by-hour payload.
type HourlyData struct {
	Hours  []int     `json:"hours"`
	Counts []float64 `json:"counts"`
}

// DayOfWeekData carries per-day counts paired with the average victims per
// accident series (right axis).
type DayOfWeekData struct {
	Days       []string  `json:"days"`
	Counts     []float64 `json:"counts"`
	AvgVictims []float64 `json:"avg_victims"`
}

// TopLocationsData is the top-barangays ranking.
type TopLocationsData struct {
	Names  []string  `json:"names"`
	Counts []float64 `json:"counts"`
}

// AlcoholByHourData holds the three mutually exclusive involvement
// percentages per hour bucket; any subset may be zero.
type AlcoholByHourData struct {
	Hours      []int     `json:"hours"`
	YesPct     []float64 `json:"yes_pct"`
	NoPct      []float64 `json:"no_pct"`
	UnknownPct []float64 `json:"unknown_pct"`
}

// LabelValueData is the shared labels/values payload (victims by age,
// offense types, season).
type LabelValueData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// TimeseriesData is the overall monthly accident count series.
type TimeseriesData struct {
	Dates  []string  `json:"dates"`
	Counts []float64 `json:"counts"`
}

// KPIData holds the four headline indicators.
type KPIData struct {
	TotalAccidents         int     `json:"total_accidents"`
	TotalVictims           int     `json:"total_victims"`
	AvgVictimsPerAccident  float64 `json:"avg_victims_per_accident"`
	AlcoholInvolvementRate float64 `json:"alcohol_involvement_rate"`
}

// GenderKPIData holds the per-gender victim counts.
type GenderKPIData struct {
	MaleCount    int `json:"male_count"`
	FemaleCount  int `json:"female_count"`
	UnknownCount int `json:"unknown_count"`
}

// ForecastSeries is the common forecast payload: one historical and one
// forecast value per label, plus the model identity used to produce it.
type ForecastSeries struct {
	Labels     []string  `json:"labels"`
	Historical []float64 `json:"historical"`
	Forecast   []float64 `json:"forecast"`
	Horizon    int       `json:"horizon"`
	ModelUsed  string    `json:"model_used"`
}

// DayOfWeekForecast is the richer day-of-week variant pairing the count
// series with the average-victims series in both modes.
type DayOfWeekForecast struct {
	Labels               []string  `json:"labels"`
	HistoricalCounts     []float64 `json:"historical_counts"`
	ForecastCounts       []float64 `json:"forecast_counts"`
	HistoricalAvgVictims []float64 `json:"historical_avg_victims"`
	ForecastAvgVictims   []float64 `json:"forecast_avg_victims"`
	Horizon              int       `json:"horizon"`
	ModelUsed            string    `json:"model_used"`
}

// AlcoholForecast carries the forecast involvement percentages per hour.
type AlcoholForecast struct {
	Hours              []int     `json:"hours"`
	ForecastYesPct     []float64 `json:"forecast_yes_pct"`
	ForecastNoPct      []float64 `json:"forecast_no_pct"`
	ForecastUnknownPct []float64 `json:"forecast_unknown_pct"`
	Horizon            int       `json:"horizon"`
	ModelUsed          string    `json:"model_used"`
}

// CellChange is one collapsed cell edit submitted to update_rows.
type CellChange struct {
	ID       int64  `json:"id"`
	Column   string `json:"column"`
	NewValue string `json:"new_value"`
}
