package client

import (
	"context"

	"StockHistory/internal/domain/models"
	"StockHistory/internal/usecase"
)

// Local serves the viewer straight from the use cases, skipping HTTP.
type Local struct {
	symbols *usecase.SymbolsUseCase
	history *usecase.HistoryUseCase
}

func NewLocal(symbols *usecase.SymbolsUseCase, history *usecase.HistoryUseCase) *Local {
	return &Local{symbols: symbols, history: history}
}

func (l *Local) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	return l.symbols.SearchSymbols(ctx, query)
}

func (l *Local) GetHistory(ctx context.Context, req models.HistoryRequest) ([]models.Bar, error) {
	return l.history.GetHistory(ctx, usecase.GetHistoryParams{
		Symbol:   req.Symbol,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
}
