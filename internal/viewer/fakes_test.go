package viewer

import (
	"context"
	"sync"
	"time"

	"StockHistory/internal/domain/models"
)

// fakeClock drives Debouncer timers by hand.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every live timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Armed counts timers that are neither stopped nor fired.
func (c *fakeClock) Armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeBackend struct {
	mu        sync.Mutex
	searches  []string
	results   map[string][]models.SymbolMatch
	gates     map[string]chan struct{}
	searchErr error

	fetches []models.HistoryRequest
	bars    []models.Bar
	histErr error
}

func (b *fakeBackend) SearchSymbols(_ context.Context, query string) ([]models.SymbolMatch, error) {
	b.mu.Lock()
	b.searches = append(b.searches, query)
	gate := b.gates[query]
	res := b.results[query]
	err := b.searchErr
	b.mu.Unlock()

	if gate != nil {
		// ignores ctx on purpose: models a reply that arrives after being superseded
		<-gate
	}
	return res, err
}

func (b *fakeBackend) GetHistory(_ context.Context, req models.HistoryRequest) ([]models.Bar, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches = append(b.fetches, req)
	return b.bars, b.histErr
}

func (b *fakeBackend) Searches() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.searches...)
}

func (b *fakeBackend) Fetches() []models.HistoryRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.HistoryRequest(nil), b.fetches...)
}

// eventLog records handled events from WithTrace.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event, _ State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) has(match func(Event) bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if match(ev) {
			return true
		}
	}
	return false
}
