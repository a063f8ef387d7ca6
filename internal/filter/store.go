package filter

import "sync"

// Mode holds the process-wide forecast display settings. It is written by
// the mode-toggle handler and read by every chart loader.
type Mode struct {
	Forecast bool
	Model    string
	Horizon  int
}

// Store keeps the last committed filter snapshot and the forecast mode.
// Apply is the only gate through which a new snapshot is committed.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	mode    Mode
}

// NewStore returns a store holding the default snapshot.
func NewStore() *Store {
	return &Store{current: NewSnapshot()}
}

// Apply validates the snapshot and, on success, commits a copy as the
// current filter state. On validation failure the previous state is left
// untouched and the field error is returned.
func (st *Store) Apply(s Snapshot) (Snapshot, error) {
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = s.Clone()
	return st.current.Clone(), nil
}

// Current returns a copy of the last committed snapshot.
func (st *Store) Current() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current.Clone()
}

// Reset restores the default snapshot (the "clear filters" action) and
// returns it.
func (st *Store) Reset() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = NewSnapshot()
	return st.current.Clone()
}

// SetMode replaces the forecast mode settings.
func (st *Store) SetMode(m Mode) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mode = m
}

// CurrentMode returns the forecast mode settings.
func (st *Store) CurrentMode() Mode {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.mode
}
