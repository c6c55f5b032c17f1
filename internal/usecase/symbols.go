package usecase

import (
	"context"
	"strings"
	"time"

	"StockHistory/internal/domain/models"
	domrepo "StockHistory/internal/domain/repository"
	applogger "StockHistory/pkg/logger"
	pkgmetrics "StockHistory/pkg/metrics"
)

// DefaultMaxResults caps symbol search hits.
const DefaultMaxResults = 10

// SymbolsUseCase resolves free text into tradable EQUITY/ETF symbols.
type SymbolsUseCase struct {
	provider   domrepo.MarketDataProvider
	metrics    domrepo.Metrics
	log        *applogger.Logger
	maxResults int
}

// SymbolsOption configures SymbolsUseCase.
type SymbolsOption func(*SymbolsUseCase)

func WithMaxResults(n int) SymbolsOption {
	return func(uc *SymbolsUseCase) {
		if n > 0 {
			uc.maxResults = n
		}
	}
}

func WithSymbolsLogger(l *applogger.Logger) SymbolsOption {
	return func(uc *SymbolsUseCase) { uc.log = l }
}

func NewSymbolsUseCase(provider domrepo.MarketDataProvider, metrics domrepo.Metrics, opts ...SymbolsOption) *SymbolsUseCase {
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	uc := &SymbolsUseCase{
		provider:   provider,
		metrics:    metrics,
		log:        applogger.NewNop(),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SearchSymbols returns at most maxResults matches, in provider order. A blank
// query yields an empty slice without a provider call.
func (uc *SymbolsUseCase) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if strings.TrimSpace(query) == "" {
		return []models.SymbolMatch{}, nil
	}

	start := time.Now()
	quotes, err := uc.provider.Search(ctx, query, domrepo.SearchOptions{
		MaxResults:  uc.maxResults,
		IncludeNews: false,
	})
	uc.metrics.RecordLatency("search", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordProviderRequest(uc.provider.Name(), "search", "error")
		uc.metrics.RecordError("provider")
		uc.log.Warn("symbol search failed",
			applogger.String("provider", uc.provider.Name()),
			applogger.String("query", query),
			applogger.Error(err),
		)
		return nil, &ProviderError{Op: "error loading symbols", Err: err}
	}
	uc.metrics.RecordProviderRequest(uc.provider.Name(), "search", "ok")

	out := make([]models.SymbolMatch, 0, len(quotes))
	for _, q := range quotes {
		t := models.InstrumentType(q.QuoteType)
		if !q.Valid || !t.Searchable() {
			continue
		}
		out = append(out, models.SymbolMatch{
			Symbol:   q.Symbol,
			Name:     q.DisplayName(),
			Exchange: q.Exchange,
			Type:     t,
		})
		if len(out) == uc.maxResults {
			break
		}
	}

	uc.log.Debug("symbol search",
		applogger.String("query", query),
		applogger.Int("quotes", len(quotes)),
		applogger.Int("matches", len(out)),
	)
	return out, nil
}
