package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	DefaultSearchDelay = 300 * time.Millisecond
	// MinQueryLength is the shortest query sent to the server.
	MinQueryLength = 2
)

type CustomerSearcher interface {
	SearchCustomers(ctx context.Context, q string) ([]Customer, error)
}

// Searcher debounces customer lookups: each Query replaces the pending one
// and cancels any request in flight, so only results for the latest query
// are delivered.
type Searcher struct {
	src       CustomerSearcher
	delay     time.Duration
	onResults func(q string, customers []Customer)
	onError   func(q string, err error)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc

	// deliverMu serializes callbacks so a clear is never overtaken by results
	// of an older query.
	deliverMu sync.Mutex
}

type SearcherOption func(*Searcher)

func WithDelay(d time.Duration) SearcherOption {
	return func(s *Searcher) { s.delay = d }
}

// OnResults is called with the customers found for q, or with nil when q is
// too short and the result list should be cleared.
func OnResults(fn func(q string, customers []Customer)) SearcherOption {
	return func(s *Searcher) { s.onResults = fn }
}

// OnError is called when a search fails. Failed searches are not retried.
func OnError(fn func(q string, err error)) SearcherOption {
	return func(s *Searcher) { s.onError = fn }
}

func NewSearcher(src CustomerSearcher, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		src:       src,
		delay:     DefaultSearchDelay,
		onResults: func(string, []Customer) {},
		onError:   func(string, error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query schedules a search for q after the debounce delay. Callbacks must
// not call Query or Stop synchronously.
func (s *Searcher) Query(q string) {
	q = strings.TrimSpace(q)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.stopLocked()
	if utf8.RuneCountInString(q) < MinQueryLength {
		s.mu.Unlock()
		s.deliver(seq, func() { s.onResults(q, nil) })
		return
	}
	s.timer = time.AfterFunc(s.delay, func() { s.run(seq, q) })
	s.mu.Unlock()
}

// Stop drops the pending search and cancels the one in flight.
func (s *Searcher) Stop() {
	s.mu.Lock()
	s.seq++
	s.stopLocked()
	s.mu.Unlock()
}

func (s *Searcher) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) run(seq uint64, q string) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.timer = nil
	s.mu.Unlock()

	customers, err := s.src.SearchCustomers(ctx, q)
	cancel()

	s.deliver(seq, func() {
		if err == nil {
			s.onResults(q, customers)
		} else if !errors.Is(err, context.Canceled) {
			s.onError(q, err)
		}
	})
}

// deliver runs fn if seq is still the latest query, holding deliverMu so the
// check and the callback are atomic with respect to other deliveries.
func (s *Searcher) deliver(seq uint64, fn func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	current := seq == s.seq
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()
	if current {
		fn()
	}
}
