package dashapi

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtaverse/dashboard/internal/httputil"
)

func TestAccidentsByHour(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"data":{"hours":[0,1,2],"counts":[5,3,8]}}`)
	c := NewClient("http://backend:5000/", mock)

	data, err := c.AccidentsByHour(context.Background(), "gender=male")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, data.Hours)
	assert.Equal(t, []float64{5, 3, 8}, data.Counts)

	req := mock.Request(0)
	require.NotNil(t, req)
	assert.Equal(t, "http://backend:5000/api/accidents_by_hour?gender=male", req.URL.String())
	assert.Equal(t, "GET", req.Method)
}

func TestNoDatasetError(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":false,"message":"No table uploaded","error_type":"NO_TABLE"}`)
	c := NewClient("http://backend:5000", mock)

	_, err := c.KPIs(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDataset))
	assert.Contains(t, err.Error(), "No table uploaded")
}

func TestAPIErrorMessage(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":false,"message":"bad date range"}`)
	c := NewClient("http://backend:5000", mock)

	_, err := c.OverallTimeseries(context.Background(), "start=2025-12&end=2025-01")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad date range", apiErr.Message)
}

func TestForecastQuery(t *testing.T) {
	assert.Equal(t, "model=sarima&horizon=6", ForecastQuery("", "sarima", 6))
	assert.Equal(t, "gender=male&model=prophet&horizon=12",
		ForecastQuery("gender=male", "prophet", 12))
}

func TestForecastHourly(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"data":{
		"labels":["0","1"],
		"historical":[4,7],
		"forecast":[5,6],
		"horizon":3,
		"model_used":"random_forest"}}`)
	c := NewClient("http://backend:5000", mock)

	data, err := c.ForecastHourly(context.Background(), ForecastQuery("", "random_forest", 3))
	require.NoError(t, err)
	assert.Equal(t, "random_forest", data.ModelUsed)
	assert.Equal(t, 3, data.Horizon)
	assert.Equal(t, "http://backend:5000/api/forecast/hourly?model=random_forest&horizon=3",
		mock.Request(0).URL.String())
}

func TestBarangays(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"barangays":["Poblacion","San Isidro"]}`)
	c := NewClient("http://backend:5000", mock)

	names, err := c.Barangays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Poblacion", "San Isidro"}, names)
}

func TestUpdateRows(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"message":"2 cells updated"}`)
	c := NewClient("http://backend:5000", mock)

	msg, err := c.UpdateRows(context.Background(), "accidents_2024", []CellChange{
		{ID: 7, Column: "VICTIMS", NewValue: "3"},
		{ID: 9, Column: "BARANGAY", NewValue: "Poblacion"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 cells updated", msg)

	req := mock.Request(0)
	require.NotNil(t, req)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/api/update_rows", req.URL.Path)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"table":"accidents_2024",
		"changes":[
			{"id":7,"column":"VICTIMS","new_value":"3"},
			{"id":9,"column":"BARANGAY","new_value":"Poblacion"}
		]}`, string(body))
}

func TestDeleteRows(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"message":"3 rows deleted"}`)
	c := NewClient("http://backend:5000", mock)

	msg, err := c.DeleteRows(context.Background(), "accidents_2024", []int64{1, 2, 5})
	require.NoError(t, err)
	assert.Equal(t, "3 rows deleted", msg)

	body, err := io.ReadAll(mock.Request(0).Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"table":"accidents_2024","row_ids":[1,2,5]}`, string(body))
}

func TestUploadFile(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"message":"uploaded"}`)
	c := NewClient("http://backend:5000", mock)

	msg, err := c.UploadFile(context.Background(), "/tmp/accidents.csv",
		strings.NewReader("YEAR,VICTIMS\n2024,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "uploaded", msg)

	req := mock.Request(0)
	require.NotNil(t, req)
	assert.Equal(t, "/api/upload_files", req.URL.Path)
	assert.Contains(t, req.Header.Get("Content-Type"), "multipart/form-data")
}

func TestRetrainModel(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"message":"model retrained"}`)
	c := NewClient("http://backend:5000", mock)

	msg, err := c.RetrainModel(context.Background(), "random_forest")
	require.NoError(t, err)
	assert.Equal(t, "model retrained", msg)

	req := mock.Request(0)
	require.NotNil(t, req)
	assert.Equal(t, "/api/retrain_model", req.URL.Path)
}
