package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/filter"
	"github.com/rtaverse/dashboard/internal/httputil"
	"github.com/rtaverse/dashboard/internal/monitoring"
	"github.com/rtaverse/dashboard/internal/report"
)

// Server is the local web surface over the orchestrator: the chart grid as
// an HTML page, filter mutation endpoints and the PDF report download.
type Server struct {
	orch *Orchestrator
}

func NewServer(orch *Orchestrator) *Server {
	return &Server{orch: orch}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleChartsPage)
	r.Get("/chart/{id}", s.handleZoom)
	r.Get("/healthz", s.handleHealth)
	r.Get("/report.pdf", s.handleReport)

	r.Route("/api", func(api chi.Router) {
		api.Post("/filters", s.handleApplyFilters)
		api.Post("/filters/reset", s.handleResetFilters)
		api.Post("/mode", s.handleSetMode)
		api.Get("/filters", s.handleCurrentFilters)
		api.Get("/history", s.handleHistory)
		api.Post("/history/{id}/apply", s.handleApplyHistory)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleChartsPage(w http.ResponseWriter, r *http.Request) {
	results := s.orch.Registry().Snapshot()
	if len(results) == 0 {
		s.orch.LoadAll(r.Context())
		results = s.orch.Registry().Snapshot()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderPage(w, results); err != nil {
		monitoring.Logf("render charts page: %v", err)
	}
}

// handleZoom serves one chart as its own page, straight from the registry
// with no refetch.
func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	id, ok := charts.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteJSONError(w, http.StatusNotFound, "unknown chart")
		return
	}
	res := s.orch.Registry().Get(id)
	if res == nil || res.Empty {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		msg := "No data loaded for this chart yet."
		if res != nil && res.Message != "" {
			msg = res.Message
		}
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", msg)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderZoom(w, res); err != nil {
		monitoring.Logf("render zoom page: %v", err)
	}
}

func (s *Server) handleApplyFilters(w http.ResponseWriter, r *http.Request) {
	var snap filter.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "invalid filter payload: "+err.Error())
		return
	}
	snap.Gender = filter.NormalizeGender(snap.Gender)

	if err := s.orch.ApplyAndLoad(r.Context(), snap); err != nil {
		var fieldErr *filter.FieldError
		if errors.As(err, &fieldErr) {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"field": fieldErr.Field,
				"error": fieldErr.Message,
			})
			return
		}
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"applied": s.orch.Store().Current().Describe()})
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.orch.Store().Reset()
	s.orch.LoadAll(r.Context())
	httputil.WriteJSONOK(w, map[string]string{"applied": "None"})
}

func (s *Server) handleCurrentFilters(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]any{
		"filters":     s.orch.Store().Current(),
		"description": s.orch.Store().Current().Describe(),
		"mode":        s.orch.Store().CurrentMode(),
	})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var mode filter.Mode
	if err := json.NewDecoder(r.Body).Decode(&mode); err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "invalid mode payload: "+err.Error())
		return
	}
	if mode.Forecast && mode.Horizon <= 0 {
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity, "forecast horizon must be positive")
		return
	}
	s.orch.Store().SetMode(mode)
	s.orch.LoadAll(r.Context())
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.orch.History()
	if hist == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "filter history not enabled")
		return
	}
	entries, err := hist.Recent(20)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.WriteJSONOK(w, entries)
}

func (s *Server) handleApplyHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.orch.History()
	if hist == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "filter history not enabled")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "invalid history id")
		return
	}
	entry, err := hist.Get(id)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "no such history entry")
		return
	}
	if err := s.orch.ApplyAndLoad(r.Context(), entry.Snapshot); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"applied": entry.Description})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.orch.Store().Current()
	query := snap.Query()

	// KPI fetch failures degrade to a report without the figures block.
	overview, err := s.orch.API().KPIs(r.Context(), query)
	if err != nil {
		monitoring.Logf("report kpis unavailable: %v", err)
	}
	gender, err := s.orch.API().GenderKPIs(r.Context(), query)
	if err != nil {
		monitoring.Logf("report gender kpis unavailable: %v", err)
	}

	results := s.orch.Registry().Snapshot()
	if len(results) == 0 {
		s.orch.LoadAll(r.Context())
		results = s.orch.Registry().Snapshot()
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "accident-report-"+time.Now().Format("20060102-1504")+".pdf"))

	if err := report.Build(w, report.Params{
		FilterSummary: snap.Describe(),
		Overview:      overview,
		Gender:        gender,
		Charts:        results,
		GeneratedAt:   time.Now(),
	}); err != nil {
		monitoring.Logf("report build failed: %v", err)
	}
}
