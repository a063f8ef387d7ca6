package grid

import (
	"sync"
	"time"
)

// DefaultSearchDelay matches the keystroke settle time of the search box.
const DefaultSearchDelay = 300 * time.Millisecond

// Searcher debounces search input: rapid keystrokes collapse into one
// callback with the final query once typing pauses.
type Searcher struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func(query string)
}

// NewSearcher wires the callback with the default delay. A non-positive
// delay fires synchronously, which tests use.
func NewSearcher(fn func(query string)) *Searcher {
	return &Searcher{delay: DefaultSearchDelay, fn: fn}
}

// SetDelay overrides the debounce window.
func (s *Searcher) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Input feeds one keystroke's worth of query text, restarting the
// debounce window.
func (s *Searcher) Input(query string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.delay <= 0 {
		s.mu.Unlock()
		s.fn(query)
		return
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fn(query) })
	s.mu.Unlock()
}

// Stop cancels any pending callback.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
