package repository

import (
	"context"
	"time"

	"StockHistory/internal/domain/models"
)

type SearchOptions struct {
	MaxResults  int
	IncludeNews bool
}

// HistoricalOptions bounds a history query. Both ends are calendar days and inclusive.
type HistoricalOptions struct {
	Period1  time.Time
	Period2  time.Time
	Interval Interval
}

// MarketDataProvider is the remote source of symbols and daily bars.
type MarketDataProvider interface {
	Name() string
	Search(ctx context.Context, text string, opts SearchOptions) ([]models.ProviderQuote, error)
	Historical(ctx context.Context, symbol string, opts HistoricalOptions) ([]models.ProviderBar, error)
}

type Metrics interface {
	RecordProviderRequest(provider, op, outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordBars(symbol string, n int)
}
