// Package dashboard coordinates the full refresh cycle: apply a filter
// snapshot, fan out to the chart loaders and KPI endpoints, publish results
// and notify the attached view. It owns no rendering itself.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/dashapi"
	"github.com/rtaverse/dashboard/internal/filter"
	"github.com/rtaverse/dashboard/internal/history"
	"github.com/rtaverse/dashboard/internal/monitoring"
)

// KPISet bundles the two KPI payloads the header cards show.
type KPISet struct {
	Overview *dashapi.KPIData
	Gender   *dashapi.GenderKPIData
}

// View receives refresh notifications. Implementations must tolerate calls
// from multiple goroutines.
type View interface {
	// SetBusy toggles the loading indicator around a refresh cycle.
	SetBusy(busy bool)
	// ShowKPIs updates the header cards. Either field may be nil when its
	// endpoint failed.
	ShowKPIs(kpis KPISet)
	// ChartUpdated signals that the registry holds a new result for the
	// slot, so the slot should re-render and resize.
	ChartUpdated(id charts.ID)
	// ShowError surfaces a non-chart failure such as a KPI fetch error.
	ShowError(msg string)
}

// NopView discards all notifications. Useful headless (report-only runs)
// and in tests.
type NopView struct{}

func (NopView) SetBusy(bool)           {}
func (NopView) ShowKPIs(KPISet)        {}
func (NopView) ChartUpdated(charts.ID) {}
func (NopView) ShowError(string)       {}

// Orchestrator runs refresh cycles against one backend.
type Orchestrator struct {
	api   *dashapi.Client
	store *filter.Store
	reg   *charts.Registry
	view  View
	hist  *history.Store
}

func NewOrchestrator(api *dashapi.Client, store *filter.Store, reg *charts.Registry, view View) *Orchestrator {
	if view == nil {
		view = NopView{}
	}
	return &Orchestrator{api: api, store: store, reg: reg, view: view}
}

// SetHistory attaches a filter history store; applied snapshots are then
// recorded. A failed write only logs, history is best-effort.
func (o *Orchestrator) SetHistory(h *history.Store) { o.hist = h }

// History returns the attached store, or nil.
func (o *Orchestrator) History() *history.Store { return o.hist }

// Store exposes the filter store for the surfaces that mutate it.
func (o *Orchestrator) Store() *filter.Store { return o.store }

// Registry exposes the chart registry for renderers.
func (o *Orchestrator) Registry() *charts.Registry { return o.reg }

// API exposes the backend client for surfaces that call it directly.
func (o *Orchestrator) API() *dashapi.Client { return o.api }

// ApplyAndLoad validates and commits the snapshot, then refreshes
// everything. On a validation error nothing is fetched and the error is
// returned for the caller's form handling.
func (o *Orchestrator) ApplyAndLoad(ctx context.Context, snap filter.Snapshot) error {
	committed, err := o.store.Apply(snap)
	if err != nil {
		return err
	}
	if o.hist != nil {
		if _, err := o.hist.Record(committed); err != nil {
			monitoring.Logf("record filter history: %v", err)
		}
	}
	o.LoadAll(ctx)
	return nil
}

// LoadAll refreshes the KPI cards and all chart slots for the current
// filter state. KPIs load first (both endpoints in parallel), then the
// chart loaders fan out. The busy indicator stays on until every load has
// finished or failed; a failing chart never blocks the others.
func (o *Orchestrator) LoadAll(ctx context.Context) {
	o.view.SetBusy(true)
	defer o.view.SetBusy(false)

	snap := o.store.Current()
	mode := o.store.CurrentMode()

	o.loadKPIs(ctx, snap)
	o.loadCharts(ctx, snap, mode)
}

func (o *Orchestrator) loadKPIs(ctx context.Context, snap filter.Snapshot) {
	var (
		wg   sync.WaitGroup
		set  KPISet
		mu   sync.Mutex
		errs []error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		kpis, err := o.api.KPIs(ctx, snap.Query())
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		set.Overview = kpis
	}()
	go func() {
		defer wg.Done()
		gender, err := o.api.GenderKPIs(ctx, snap.Query())
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		set.Gender = gender
	}()
	wg.Wait()

	for _, err := range errs {
		monitoring.Logf("kpi load failed: %v", err)
		o.view.ShowError(err.Error())
	}
	o.view.ShowKPIs(set)
}

func (o *Orchestrator) loadCharts(ctx context.Context, snap filter.Snapshot, mode filter.Mode) {
	var wg sync.WaitGroup
	for id, load := range charts.Loaders {
		gen := o.reg.Begin(id)
		wg.Add(1)
		go func(id charts.ID, load charts.Loader, gen uint64) {
			defer wg.Done()
			res, err := load(ctx, o.api, snap, mode)
			if err != nil {
				monitoring.Logf("chart %s load failed: %v", id, err)
				res = &charts.Result{
					ID:      id,
					Title:   charts.Title(id),
					Empty:   true,
					Message: loadFailureMessage(err),
				}
			}
			if o.reg.Publish(id, gen, res) {
				o.view.ChartUpdated(id)
			}
		}(id, load, gen)
	}
	wg.Wait()
}

// loadFailureMessage maps a loader error to the text shown in the chart's
// empty state. Backend envelope messages pass through verbatim; transport
// and decode failures get a fixed line instead of raw error detail.
func loadFailureMessage(err error) string {
	var apiErr *dashapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Could not load this chart. Check the backend connection and try again."
}
