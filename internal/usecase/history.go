package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"StockHistory/internal/domain/models"
	domrepo "StockHistory/internal/domain/repository"
	applogger "StockHistory/pkg/logger"
	pkgmetrics "StockHistory/pkg/metrics"
	"StockHistory/pkg/util"
)

// HistoryUseCase fetches daily bars for one symbol over an inclusive date range.
type HistoryUseCase struct {
	provider domrepo.MarketDataProvider
	metrics  domrepo.Metrics
	log      *applogger.Logger
}

func NewHistoryUseCase(provider domrepo.MarketDataProvider, metrics domrepo.Metrics, l *applogger.Logger) *HistoryUseCase {
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	if l == nil {
		l = applogger.NewNop()
	}
	return &HistoryUseCase{provider: provider, metrics: metrics, log: l}
}

type GetHistoryParams struct {
	Symbol   string
	FromDate string
	ToDate   string
}

// GetHistory validates p, queries the provider and returns bars newest first.
// from > to is passed through; whatever the provider returns for it is the answer.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) ([]models.Bar, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, &FieldError{Field: "symbol", Message: "symbol is required"}
	}
	if p.FromDate == "" {
		return nil, &FieldError{Field: "fromDate", Message: "fromDate is required"}
	}
	if p.ToDate == "" {
		return nil, &FieldError{Field: "toDate", Message: "toDate is required"}
	}
	from, err := util.ParseDate(p.FromDate)
	if err != nil {
		return nil, &FieldError{Field: "fromDate", Message: "fromDate must be a date in YYYY-MM-DD format"}
	}
	to, err := util.ParseDate(p.ToDate)
	if err != nil {
		return nil, &FieldError{Field: "toDate", Message: "toDate must be a date in YYYY-MM-DD format"}
	}

	start := time.Now()
	raw, err := uc.provider.Historical(ctx, symbol, domrepo.HistoricalOptions{
		Period1:  from,
		Period2:  to,
		Interval: domrepo.IntervalDaily,
	})
	uc.metrics.RecordLatency("historical", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordProviderRequest(uc.provider.Name(), "historical", "error")
		uc.metrics.RecordError("provider")
		uc.log.Warn("history fetch failed",
			applogger.String("provider", uc.provider.Name()),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, &ProviderError{Op: "error loading historical data", Err: err}
	}
	uc.metrics.RecordProviderRequest(uc.provider.Name(), "historical", "ok")

	bars := ReshapeBars(raw)
	uc.metrics.RecordBars(symbol, len(bars))
	uc.log.Debug("history fetched",
		applogger.String("symbol", symbol),
		applogger.String("from", p.FromDate),
		applogger.String("to", p.ToDate),
		applogger.Int("bars", len(bars)),
	)
	return bars, nil
}

// ReshapeBars converts provider bars to Bars sorted strictly newest first.
// Never returns nil.
func ReshapeBars(raw []models.ProviderBar) []models.Bar {
	sorted := make([]models.ProviderBar, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.After(sorted[j].Time) })

	out := make([]models.Bar, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, models.Bar{
			Date:     util.FormatDate(b.Time),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   b.Volume,
		})
	}
	return out
}
