package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockHistory/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func startController(t *testing.T, be Backend, opts ...Option) (*Controller, *fakeClock, *eventLog) {
	t.Helper()
	clk := &fakeClock{}
	log := &eventLog{}
	opts = append([]Option{
		WithAfterFunc(clk.AfterFunc),
		WithTrace(log.record),
		WithInitialState(NewState(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))),
	}, opts...)
	c := NewController(be, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return c, clk, log
}

func waitState(t *testing.T, c *Controller, cond func(State) bool) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(c.State()) }, waitFor, tick)
}

func TestControllerDebouncesKeystrokes(t *testing.T) {
	be := &fakeBackend{results: map[string][]models.SymbolMatch{
		"appl": {{Symbol: "AAPL", Name: "Apple Inc.", Type: models.InstrumentEquity}},
	}}
	c, clk, _ := startController(t, be)

	for _, text := range []string{"a", "ap", "app", "appl"} {
		c.Dispatch(InputChanged{Text: text})
	}
	waitState(t, c, func(s State) bool { return s.Search.InputText == "appl" })
	assert.Equal(t, 1, clk.Armed())

	clk.Advance(299 * time.Millisecond)
	assert.Empty(t, be.Searches())

	clk.Advance(time.Millisecond)
	waitState(t, c, func(s State) bool { return len(s.Search.Results) == 1 && !s.Search.IsSearching })
	assert.Equal(t, []string{"appl"}, be.Searches())
	assert.Equal(t, "AAPL", c.State().Search.Results[0].Symbol)
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	gate := make(chan struct{})
	be := &fakeBackend{
		results: map[string][]models.SymbolMatch{
			"ab":  {{Symbol: "AB"}},
			"abc": {{Symbol: "ABC"}},
		},
		gates: map[string]chan struct{}{"ab": gate},
	}
	c, clk, log := startController(t, be)

	c.Dispatch(InputChanged{Text: "ab"})
	waitState(t, c, func(s State) bool { return s.Search.InputText == "ab" })
	clk.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool { return len(be.Searches()) == 1 }, waitFor, tick)

	c.Dispatch(InputChanged{Text: "abc"})
	waitState(t, c, func(s State) bool { return s.Search.InputText == "abc" })
	clk.Advance(300 * time.Millisecond)
	waitState(t, c, func(s State) bool {
		return !s.Search.IsSearching && len(s.Search.Results) == 1 && s.Search.Results[0].Symbol == "ABC"
	})

	// the slow reply for "ab" lands last
	close(gate)
	require.Eventually(t, func() bool {
		return log.has(func(ev Event) bool {
			r, ok := ev.(SearchSucceeded)
			return ok && r.Query == "ab"
		})
	}, waitFor, tick)

	s := c.State()
	require.Len(t, s.Search.Results, 1)
	assert.Equal(t, "ABC", s.Search.Results[0].Symbol)
}

func TestControllerShortQueryNeverCallsBackend(t *testing.T) {
	be := &fakeBackend{}
	c, clk, log := startController(t, be)

	c.Dispatch(InputChanged{Text: "a"})
	waitState(t, c, func(s State) bool { return s.Search.InputText == "a" })
	clk.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool {
		return log.has(func(ev Event) bool { _, ok := ev.(DebounceFired); return ok })
	}, waitFor, tick)

	assert.Empty(t, be.Searches())
	assert.Empty(t, c.State().Search.Results)
	assert.False(t, c.State().Search.IsSearching)
}

func TestControllerSearchErrorDegradesToEmpty(t *testing.T) {
	be := &fakeBackend{searchErr: errors.New("502 bad gateway")}
	c, clk, _ := startController(t, be)

	c.Dispatch(InputChanged{Text: "msft"})
	waitState(t, c, func(s State) bool { return s.Search.InputText == "msft" })
	clk.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool { return len(be.Searches()) == 1 }, waitFor, tick)
	waitState(t, c, func(s State) bool { return !s.Search.IsSearching })

	assert.Empty(t, c.State().Search.Results)
	assert.Empty(t, c.State().Fetch.Error)
}

func TestControllerFetch(t *testing.T) {
	bars := []models.Bar{{Date: "2024-03-15", Close: 170.73}, {Date: "2024-03-14", Close: 173}}
	be := &fakeBackend{bars: bars}
	c, _, _ := startController(t, be)

	c.Dispatch(FetchRequested{})
	waitState(t, c, func(s State) bool { return s.Fetch.Error == MsgCompleteFields })
	assert.Empty(t, be.Fetches())

	c.Dispatch(SymbolSelected{Symbol: &models.SymbolMatch{Symbol: "AAPL"}})
	c.Dispatch(FetchRequested{})
	waitState(t, c, func(s State) bool { return len(s.Fetch.Bars) == 2 && !s.Fetch.IsLoading })

	require.Len(t, be.Fetches(), 1)
	assert.Equal(t, models.HistoryRequest{Symbol: "AAPL", FromDate: "2024-02-15", ToDate: "2024-03-15"}, be.Fetches()[0])
	assert.Empty(t, c.State().Fetch.Error)
}

func TestControllerFetchErrorShowsBanner(t *testing.T) {
	be := &fakeBackend{histErr: errors.New("error loading historical data: timeout")}
	c, _, _ := startController(t, be)

	c.Dispatch(SymbolSelected{Symbol: &models.SymbolMatch{Symbol: "AAPL"}})
	c.Dispatch(FetchRequested{})
	waitState(t, c, func(s State) bool { return s.Fetch.Error != "" && !s.Fetch.IsLoading })
	assert.Equal(t, "error loading historical data: timeout", c.State().Fetch.Error)
}

func TestControllerRunTwice(t *testing.T) {
	c := NewController(&fakeBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	assert.ErrorIs(t, c.Run(ctx), ErrStopped)

	// dispatch after stop must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.Dispatch(FetchRequested{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Dispatch blocked after Run returned")
	}
}

func TestControllerPublishesSnapshots(t *testing.T) {
	c := NewController(&fakeBackend{}, WithAfterFunc((&fakeClock{}).AfterFunc))
	got := make(chan State, 8)
	c.Subscribe(func(s State) { got <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	<-got // initial snapshot
	c.Dispatch(DateFromChanged{Date: "2024-01-01"})
	select {
	case s := <-got:
		assert.Equal(t, "2024-01-01", s.Selection.DateFrom)
	case <-time.After(time.Second):
		t.Fatalf("no snapshot after dispatch")
	}
}
