package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	queries []string
	block   chan struct{}
	err     error
	// slow ignores cancellation, like a server that answers anyway.
	slow bool
}

func (f *fakeSource) SearchCustomers(ctx context.Context, q string) ([]Customer, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	block, err, slow := f.block, f.err, f.slow
	f.mu.Unlock()

	if block != nil && slow {
		<-block
	} else if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []Customer{{ID: 1, Name: "match for " + q}}, nil
}

func (f *fakeSource) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type recorder struct {
	mu      sync.Mutex
	results map[string][]Customer
	cleared int
	errs    []error
}

func newRecorder() *recorder { return &recorder{results: map[string][]Customer{}} }

func (r *recorder) onResults(q string, cs []Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cs == nil {
		r.cleared++
		return
	}
	r.results[q] = cs
}

func (r *recorder) onError(q string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) snapshot() (map[string][]Customer, int, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make(map[string][]Customer, len(r.results))
	for k, v := range r.results {
		res[k] = v
	}
	return res, r.cleared, append([]error(nil), r.errs...)
}

func newTestSearcher(src CustomerSearcher, rec *recorder) *Searcher {
	return NewSearcher(src, WithDelay(20*time.Millisecond), OnResults(rec.onResults), OnError(rec.onError))
}

func TestSearcher_DebouncesKeystrokes(t *testing.T) {
	src := &fakeSource{}
	rec := newRecorder()
	s := newTestSearcher(src, rec)
	defer s.Stop()

	for _, q := range []string{"ra", "rav", "ravi"} {
		s.Query(q)
	}

	require.Eventually(t, func() bool {
		res, _, _ := rec.snapshot()
		return len(res) == 1
	}, time.Second, 5*time.Millisecond)

	res, _, _ := rec.snapshot()
	assert.Equal(t, "match for ravi", res["ravi"][0].Name)
	assert.Equal(t, []string{"ravi"}, src.seen())
}

func TestSearcher_ShortQueryClearsWithoutRequest(t *testing.T) {
	src := &fakeSource{}
	rec := newRecorder()
	s := newTestSearcher(src, rec)
	defer s.Stop()

	s.Query("ravi")
	s.Query(" r ")

	time.Sleep(60 * time.Millisecond)
	res, cleared, _ := rec.snapshot()
	assert.Empty(t, res)
	assert.Equal(t, 1, cleared)
	assert.Empty(t, src.seen())
}

func TestSearcher_NewQueryCancelsInFlight(t *testing.T) {
	src := &fakeSource{block: make(chan struct{})}
	rec := newRecorder()
	s := newTestSearcher(src, rec)
	defer s.Stop()

	s.Query("ravi")
	require.Eventually(t, func() bool { return len(src.seen()) == 1 }, time.Second, 5*time.Millisecond)

	src.mu.Lock()
	src.block = nil
	src.mu.Unlock()
	s.Query("chennai")

	require.Eventually(t, func() bool {
		res, _, _ := rec.snapshot()
		return len(res) == 1
	}, time.Second, 5*time.Millisecond)

	res, _, errs := rec.snapshot()
	assert.Contains(t, res, "chennai")
	assert.NotContains(t, res, "ravi")
	assert.Empty(t, errs)
}

func TestSearcher_ReportsErrorsWithoutRetry(t *testing.T) {
	boom := errors.New("connection refused")
	src := &fakeSource{err: boom}
	rec := newRecorder()
	s := newTestSearcher(src, rec)
	defer s.Stop()

	s.Query("ravi")
	require.Eventually(t, func() bool {
		_, _, errs := rec.snapshot()
		return len(errs) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	_, _, errs := rec.snapshot()
	assert.ErrorIs(t, errs[0], boom)
	assert.Len(t, errs, 1)
	assert.Len(t, src.seen(), 1)
}

func TestSearcher_StopDropsPending(t *testing.T) {
	src := &fakeSource{}
	rec := newRecorder()
	s := newTestSearcher(src, rec)

	s.Query("ravi")
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, src.seen())
}

func TestNewSearcher_Defaults(t *testing.T) {
	s := NewSearcher(&fakeSource{})
	assert.Equal(t, DefaultSearchDelay, s.delay)
	assert.Equal(t, 300*time.Millisecond, s.delay)
}

func TestSearcher_ClearIsNotOvertakenByLateResults(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{block: release, slow: true}

	var (
		mu     sync.Mutex
		events []string
	)
	s := NewSearcher(src, WithDelay(time.Millisecond),
		OnResults(func(q string, cs []Customer) {
			mu.Lock()
			defer mu.Unlock()
			if cs == nil {
				events = append(events, "clear")
				return
			}
			events = append(events, "results:"+q)
		}),
		OnError(func(q string, err error) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, "error:"+q)
		}),
	)
	defer s.Stop()

	s.Query("ravi")
	require.Eventually(t, func() bool { return len(src.seen()) == 1 }, time.Second, time.Millisecond)

	s.Query("r")
	close(release)
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"clear"}, events)
}
