package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/dashapi"
	"github.com/rtaverse/dashboard/internal/filter"
	"github.com/rtaverse/dashboard/internal/httputil"
)

// recordingView captures orchestrator notifications for assertions.
type recordingView struct {
	mu      sync.Mutex
	busy    []bool
	kpis    []KPISet
	updated []charts.ID
	errors  []string
}

func (v *recordingView) SetBusy(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, b)
}

func (v *recordingView) ShowKPIs(k KPISet) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.kpis = append(v.kpis, k)
}

func (v *recordingView) ChartUpdated(id charts.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.updated = append(v.updated, id)
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// backendFor answers every dashboard endpoint with a minimal success
// payload, optionally failing the given paths with a transport error.
func backendFor(failPaths ...string) *httputil.MockClient {
	mock := httputil.NewMockClient()
	mock.DoFunc = func(req *http.Request) (*http.Response, error) {
		path := req.URL.Path
		for _, fail := range failPaths {
			if path == fail {
				return nil, errors.New("connection refused")
			}
		}
		switch {
		case path == "/api/kpis":
			return jsonResponse(`{"success":true,"data":{
				"total_accidents":100,"total_victims":150,
				"avg_victims_per_accident":1.5,"alcohol_involvement_rate":20}}`), nil
		case path == "/api/gender_kpis":
			return jsonResponse(`{"success":true,"data":{
				"male_count":90,"female_count":50,"unknown_count":10}}`), nil
		case path == "/api/accidents_by_hour":
			return jsonResponse(`{"success":true,"data":{"hours":[1],"counts":[4]}}`), nil
		case path == "/api/accidents_by_day":
			return jsonResponse(`{"success":true,"data":{
				"days":["Mon"],"counts":[3],"avg_victims":[1.2]}}`), nil
		case path == "/api/top_barangays":
			return jsonResponse(`{"success":true,"data":{"names":["Poblacion"],"counts":[5]}}`), nil
		case path == "/api/alcohol_by_hour":
			return jsonResponse(`{"success":true,"data":{
				"hours":[22],"yes_pct":[40],"no_pct":[50],"unknown_pct":[10]}}`), nil
		case path == "/api/overall_timeseries":
			return jsonResponse(`{"success":true,"data":{"dates":["2024-01"],"counts":[7]}}`), nil
		case strings.HasPrefix(path, "/api/"):
			// victims_by_age, offense_types, by_season
			return jsonResponse(`{"success":true,"data":{"labels":["a"],"values":[2]}}`), nil
		}
		return nil, errors.New("unexpected path " + path)
	}
	return mock
}

func newTestOrchestrator(mock *httputil.MockClient, view View) *Orchestrator {
	api := dashapi.NewClient("http://backend:5000", mock)
	return NewOrchestrator(api, filter.NewStore(), charts.NewRegistry(), view)
}

func TestLoadAllPublishesEveryChart(t *testing.T) {
	view := &recordingView{}
	orch := newTestOrchestrator(backendFor(), view)

	orch.LoadAll(context.Background())

	for _, id := range charts.AllIDs {
		res := orch.Registry().Get(id)
		require.NotNil(t, res, "chart %s should be published", id)
		assert.False(t, res.Empty, "chart %s should have data", id)
	}
	assert.Len(t, view.updated, len(charts.AllIDs))
	assert.Equal(t, []bool{true, false}, view.busy)

	require.Len(t, view.kpis, 1)
	require.NotNil(t, view.kpis[0].Overview)
	assert.Equal(t, 100, view.kpis[0].Overview.TotalAccidents)
	require.NotNil(t, view.kpis[0].Gender)
	assert.Equal(t, 90, view.kpis[0].Gender.MaleCount)
}

func TestLoadAllIsolatesChartFailures(t *testing.T) {
	view := &recordingView{}
	orch := newTestOrchestrator(backendFor("/api/offense_types"), view)

	orch.LoadAll(context.Background())

	failed := orch.Registry().Get(charts.OffenseType)
	require.NotNil(t, failed)
	assert.True(t, failed.Empty)
	assert.Equal(t, charts.Title(charts.OffenseType), failed.Title)
	// transport detail stays in the log, not in the user-facing message
	assert.NotContains(t, failed.Message, "connection refused")
	assert.Contains(t, failed.Message, "Could not load this chart")

	// the rest still load
	for _, id := range charts.AllIDs {
		if id == charts.OffenseType {
			continue
		}
		res := orch.Registry().Get(id)
		require.NotNil(t, res)
		assert.False(t, res.Empty)
	}
	assert.Equal(t, []bool{true, false}, view.busy)
}

func TestLoadAllShowsEnvelopeMessageVerbatim(t *testing.T) {
	view := &recordingView{}
	mock := backendFor()
	inner := mock.DoFunc
	mock.DoFunc = func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/api/by_season" {
			return jsonResponse(`{"success":false,"message":"season column missing"}`), nil
		}
		return inner(req)
	}
	orch := newTestOrchestrator(mock, view)

	orch.LoadAll(context.Background())

	failed := orch.Registry().Get(charts.Season)
	require.NotNil(t, failed)
	assert.True(t, failed.Empty)
	assert.Contains(t, failed.Message, "season column missing")
}

func TestLoadAllReportsKPIFailure(t *testing.T) {
	view := &recordingView{}
	orch := newTestOrchestrator(backendFor("/api/kpis"), view)

	orch.LoadAll(context.Background())

	require.Len(t, view.kpis, 1)
	assert.Nil(t, view.kpis[0].Overview)
	require.NotNil(t, view.kpis[0].Gender)
	require.NotEmpty(t, view.errors)
}

func TestApplyAndLoadSendsSameQueryToEveryLoader(t *testing.T) {
	view := &recordingView{}
	mock := backendFor()
	orch := newTestOrchestrator(mock, view)

	snap := filter.NewSnapshot()
	snap.Locations = []string{"Poblacion"}
	snap.Gender = "male"
	snap.Start = "2024-01"
	snap.End = "2024-06"

	require.NoError(t, orch.ApplyAndLoad(context.Background(), snap))

	want := snap.Query()
	assert.Contains(t, want, "location=Poblacion")
	assert.Contains(t, want, "gender=male")
	for _, req := range mock.Requests {
		assert.Equal(t, want, req.URL.RawQuery, "path %s", req.URL.Path)
	}
	// the two KPI calls plus all eight chart loaders
	assert.Equal(t, 2+len(charts.AllIDs), mock.RequestCount())
}

func TestApplyAndLoadRejectsInvalidSnapshot(t *testing.T) {
	view := &recordingView{}
	mock := backendFor()
	orch := newTestOrchestrator(mock, view)

	snap := filter.NewSnapshot()
	snap.AgeFrom = 60
	snap.AgeTo = 18

	err := orch.ApplyAndLoad(context.Background(), snap)
	require.Error(t, err)
	var fieldErr *filter.FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Zero(t, mock.RequestCount(), "nothing should be fetched on invalid filters")
}
