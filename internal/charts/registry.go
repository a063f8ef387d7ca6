package charts

import "sync"

// Registry holds the latest Result per chart slot together with a per-slot
// generation counter. Loads run concurrently, so a slow response for an old
// filter state can arrive after a newer one; a loader takes a generation
// before fetching and Publish ignores the result if the slot has moved on.
type Registry struct {
	mu      sync.Mutex
	results map[ID]*Result
	gens    map[ID]uint64
}

func NewRegistry() *Registry {
	return &Registry{
		results: make(map[ID]*Result),
		gens:    make(map[ID]uint64),
	}
}

// Begin reserves a new generation for the chart slot and returns it. Any
// in-flight load holding an older generation becomes stale.
func (r *Registry) Begin(id ID) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[id]++
	return r.gens[id]
}

// Publish stores the result if gen is still the slot's current generation.
// It reports whether the result was accepted.
func (r *Registry) Publish(id ID, gen uint64, res *Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gens[id] {
		return false
	}
	r.results[id] = res
	return true
}

// Get returns the latest published result for the slot, or nil.
func (r *Registry) Get(id ID) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id]
}

// Snapshot returns the published results in display order, skipping slots
// that have never loaded.
func (r *Registry) Snapshot() []*Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Result, 0, len(AllIDs))
	for _, id := range AllIDs {
		if res, ok := r.results[id]; ok {
			out = append(out, res)
		}
	}
	return out
}

// Clear drops all published results, e.g. after the last dataset is
// deleted.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = make(map[ID]*Result)
}
