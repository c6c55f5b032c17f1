package models

// Requests for market HTTP endpoints.

type SearchRequest struct {
	Query string `query:"query" json:"query" validate:"required"`
}

type HistoryRequest struct {
	Symbol   string `json:"symbol" validate:"required"`
	FromDate string `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"toDate" validate:"required,datetime=2006-01-02"`
}
