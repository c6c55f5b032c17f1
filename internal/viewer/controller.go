package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockHistory/internal/domain/models"
	applogger "StockHistory/pkg/logger"
)

const DefaultDebounce = 300 * time.Millisecond

// Backend is the query service as seen from the UI.
type Backend interface {
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
	GetHistory(ctx context.Context, req models.HistoryRequest) ([]models.Bar, error)
}

// ErrStopped is returned by Run when called twice.
var ErrStopped = errors.New("viewer: controller already ran")

// Controller owns State on a single event-loop goroutine. Every mutation goes
// through Dispatch; network calls run on their own goroutines and report back
// as events.
type Controller struct {
	backend  Backend
	reducer  Reducer
	debounce time.Duration
	deb      *Debouncer
	log      *applogger.Logger
	trace    func(Event, State)

	events chan Event
	done   chan struct{}

	mu    sync.RWMutex
	state State
	subs  []func(State)

	// owned by the loop goroutine
	searchCancel context.CancelFunc
	fetchCancel  context.CancelFunc
	inflight     sync.WaitGroup

	runOnce sync.Once
}

// Option configures Controller.
type Option func(*Controller)

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

func WithMinQueryLength(n int) Option {
	return func(c *Controller) { c.reducer.MinQueryLength = n }
}

// WithAfterFunc swaps the timer factory behind the debouncer.
func WithAfterFunc(after AfterFunc) Option {
	return func(c *Controller) { c.deb = NewDebouncer(after) }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithInitialState replaces NewState(time.Now()).
func WithInitialState(s State) Option {
	return func(c *Controller) { c.state = s }
}

// WithTrace registers fn to observe every handled event and the state it produced.
// It runs on the loop goroutine.
func WithTrace(fn func(Event, State)) Option {
	return func(c *Controller) { c.trace = fn }
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		reducer:  Reducer{MinQueryLength: DefaultMinQueryLength},
		debounce: DefaultDebounce,
		deb:      NewDebouncer(nil),
		log:      applogger.NewNop(),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
		state:    NewState(time.Now()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive a snapshot after every state change.
// Call before Run.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// State returns the latest snapshot. Slices inside are shared and must not be modified.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch enqueues ev. It never blocks once the loop has stopped.
func (c *Controller) Dispatch(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Run processes events until ctx is done, then cancels timers and in-flight calls.
func (c *Controller) Run(ctx context.Context) error {
	err := ErrStopped
	c.runOnce.Do(func() {
		err = c.loop(ctx)
	})
	return err
}

func (c *Controller) loop(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.deb.Stop()
		close(c.done)
		c.inflight.Wait()
	}()

	c.publish(c.State())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			next, effects := c.reducer.Reduce(c.State(), ev)
			for _, eff := range effects {
				c.run(loopCtx, eff)
			}
			c.publish(next)
			if c.trace != nil {
				c.trace(ev, next)
			}
		}
	}
}

func (c *Controller) publish(s State) {
	c.mu.Lock()
	c.state = s
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (c *Controller) run(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case ArmDebounce:
		q := eff.Query
		c.deb.Arm(c.debounce, func() { c.Dispatch(DebounceFired{Query: q}) })

	case IssueSearch:
		if c.searchCancel != nil {
			c.searchCancel()
		}
		sctx, cancel := context.WithCancel(ctx)
		c.searchCancel = cancel
		c.log.Debug("search issued", applogger.Uint64("seq", eff.Seq), applogger.String("query", eff.Query))

		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			defer cancel()
			res, err := c.backend.SearchSymbols(sctx, eff.Query)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					c.log.Warn("search failed", applogger.String("query", eff.Query), applogger.Error(err))
				}
				c.Dispatch(SearchFailed{Seq: eff.Seq, Query: eff.Query, Err: err.Error()})
				return
			}
			c.Dispatch(SearchSucceeded{Seq: eff.Seq, Query: eff.Query, Results: res})
		}()

	case IssueFetch:
		if c.fetchCancel != nil {
			c.fetchCancel()
		}
		fctx, cancel := context.WithCancel(ctx)
		c.fetchCancel = cancel
		c.log.Info("history fetch issued",
			applogger.String("symbol", eff.Request.Symbol),
			applogger.String("from", eff.Request.FromDate),
			applogger.String("to", eff.Request.ToDate),
		)

		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			defer cancel()
			bars, err := c.backend.GetHistory(fctx, eff.Request)
			if err != nil {
				c.log.Warn("history fetch failed", applogger.String("symbol", eff.Request.Symbol), applogger.Error(err))
				c.Dispatch(FetchFailed{Seq: eff.Seq, Err: err.Error()})
				return
			}
			c.Dispatch(FetchSucceeded{Seq: eff.Seq, Request: eff.Request, Bars: bars})
		}()
	}
}
