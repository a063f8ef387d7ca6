package dashapi

import "context"

// Historical chart endpoints. Each takes the encoded filter query produced
// by filter.Snapshot.Query.

func (c *Client) AccidentsByHour(ctx context.Context, query string) (*HourlyData, error) {
	var out HourlyData
	if err := c.getData(ctx, "/api/accidents_by_hour", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AccidentsByDay(ctx context.Context, query string) (*DayOfWeekData, error) {
	var out DayOfWeekData
	if err := c.getData(ctx, "/api/accidents_by_day", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TopBarangays(ctx context.Context, query string) (*TopLocationsData, error) {
	var out TopLocationsData
	if err := c.getData(ctx, "/api/top_barangays", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AlcoholByHour(ctx context.Context, query string) (*AlcoholByHourData, error) {
	var out AlcoholByHourData
	if err := c.getData(ctx, "/api/alcohol_by_hour", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VictimsByAge(ctx context.Context, query string) (*LabelValueData, error) {
	var out LabelValueData
	if err := c.getData(ctx, "/api/victims_by_age", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OffenseTypes(ctx context.Context, query string) (*LabelValueData, error) {
	var out LabelValueData
	if err := c.getData(ctx, "/api/offense_types", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BySeason(ctx context.Context, query string) (*LabelValueData, error) {
	var out LabelValueData
	if err := c.getData(ctx, "/api/by_season", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OverallTimeseries(ctx context.Context, query string) (*TimeseriesData, error) {
	var out TimeseriesData
	if err := c.getData(ctx, "/api/overall_timeseries", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) KPIs(ctx context.Context, query string) (*KPIData, error) {
	var out KPIData
	if err := c.getData(ctx, "/api/kpis", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenderKPIs(ctx context.Context, query string) (*GenderKPIData, error) {
	var out GenderKPIData
	if err := c.getData(ctx, "/api/gender_kpis", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast endpoints. The query must already carry the model and horizon
// parameters (see ForecastQuery).

func (c *Client) ForecastHourly(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/hourly", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastDayOfWeek(ctx context.Context, query string) (*DayOfWeekForecast, error) {
	var out DayOfWeekForecast
	if err := c.getData(ctx, "/api/forecast/day_of_week", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastTopBarangays(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/top_barangays", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastAlcoholByHour(ctx context.Context, query string) (*AlcoholForecast, error) {
	var out AlcoholForecast
	if err := c.getData(ctx, "/api/forecast/alcohol_by_hour", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastVictimsByAge(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/victims_by_age", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastOffenseTypes(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/offense_types", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastBySeason(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/by_season", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastOverallTimeseries(ctx context.Context, query string) (*ForecastSeries, error) {
	var out ForecastSeries
	if err := c.getData(ctx, "/api/forecast/overall_timeseries", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
