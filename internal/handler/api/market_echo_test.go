package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockHistory/internal/domain/models"
	domrepo "StockHistory/internal/domain/repository"
	"StockHistory/internal/usecase"
	xlogger "StockHistory/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	quotes      []models.ProviderQuote
	bars        []models.ProviderBar
	err         error
	searchCalls int
	histCalls   int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(context.Context, string, domrepo.SearchOptions) ([]models.ProviderQuote, error) {
	s.searchCalls++
	return s.quotes, s.err
}

func (s *stubProvider) Historical(context.Context, string, domrepo.HistoricalOptions) ([]models.ProviderBar, error) {
	s.histCalls++
	return s.bars, s.err
}

func newTestEcho(p *stubProvider) *echo.Echo {
	l := xlogger.NewNop()
	h := NewMarketEchoHandler(l,
		usecase.NewSymbolsUseCase(p, nil),
		usecase.NewHistoryUseCase(p, nil, l),
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearchReturnsMatchesArray(t *testing.T) {
	p := &stubProvider{quotes: []models.ProviderQuote{
		{Symbol: "AAPL", ShortName: "Apple Inc.", Exchange: "NMS", QuoteType: "EQUITY", Valid: true},
		{Symbol: "EURUSD=X", ShortName: "EUR/USD", QuoteType: "CURRENCY", Valid: true},
	}}
	rec := do(newTestEcho(p), http.MethodGet, "/api/activos?query=apple", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"symbol":"AAPL","name":"Apple Inc.","exchange":"NMS","type":"EQUITY"}]`, rec.Body.String())
}

func TestSearchMissingQueryIs400(t *testing.T) {
	p := &stubProvider{}
	rec := do(newTestEcho(p), http.MethodGet, "/api/activos", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "query", body["field"])
	assert.Equal(t, "query is required", body["message"])
	assert.Zero(t, p.searchCalls)
}

func TestSearchProviderFaultIs502(t *testing.T) {
	p := &stubProvider{err: errors.New("connection refused")}
	rec := do(newTestEcho(p), http.MethodGet, "/api/activos?query=apple", "")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "error loading symbols: connection refused", body["message"])
	assert.Equal(t, "ERR_BAD_GATEWAY", body["code"])
}

func TestHistoryReturnsBarsNewestFirst(t *testing.T) {
	p := &stubProvider{bars: []models.ProviderBar{
		{Time: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.5, Volume: 1000},
		{Time: time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC), Open: 2, High: 3, Low: 1.5, Close: 2.5, AdjClose: 2.5, Volume: 2000},
	}}
	rec := do(newTestEcho(p), http.MethodPost, "/api/historico", `{"symbol":"AAPL","fromDate":"2024-01-01","toDate":"2024-01-05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"date":"2024-01-03","open":2,"high":3,"low":1.5,"close":2.5,"adjClose":2.5,"volume":2000},
		{"date":"2024-01-02","open":1,"high":2,"low":0.5,"close":1.5,"adjClose":1.5,"volume":1000}
	]`, rec.Body.String())
}

func TestHistoryEmptyIsEmptyArray(t *testing.T) {
	rec := do(newTestEcho(&stubProvider{}), http.MethodPost, "/api/historico", `{"symbol":"AAPL","fromDate":"2024-01-01","toDate":"2024-01-05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistoryMissingFieldsIs400WithoutProviderCall(t *testing.T) {
	p := &stubProvider{}
	rec := do(newTestEcho(p), http.MethodPost, "/api/historico", `{"symbol":"AAPL"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "fromDate", body["field"])
	assert.NotEmpty(t, body["message"])
	assert.Zero(t, p.histCalls)
}

func TestHistoryBadDateIs400(t *testing.T) {
	p := &stubProvider{}
	rec := do(newTestEcho(p), http.MethodPost, "/api/historico", `{"symbol":"AAPL","fromDate":"2024/01/01","toDate":"2024-01-05"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "fromDate must be a date in YYYY-MM-DD format", body["message"])
	assert.Zero(t, p.histCalls)
}

func TestHistoryProviderFaultIs502(t *testing.T) {
	p := &stubProvider{err: errors.New("No data found, symbol may be delisted")}
	rec := do(newTestEcho(p), http.MethodPost, "/api/historico", `{"symbol":"ZZZZ","fromDate":"2024-01-01","toDate":"2024-01-05"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "error loading historical data: No data found, symbol may be delisted", body["message"])
}

func TestHistoryCSVAttachment(t *testing.T) {
	p := &stubProvider{bars: []models.ProviderBar{
		{Time: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.5, Volume: 1000},
	}}
	rec := do(newTestEcho(p), http.MethodPost, "/api/historico/csv", `{"symbol":"AAPL","fromDate":"2024-01-01","toDate":"2024-01-05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="AAPL_2024-01-01_2024-01-05.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "date,open,high,low,close,adjClose,volume\n2024-01-02,1,2,0.5,1.5,1.5,1000", rec.Body.String())
}

func TestHistoryCSVEmptyIs204(t *testing.T) {
	rec := do(newTestEcho(&stubProvider{}), http.MethodPost, "/api/historico/csv", `{"symbol":"AAPL","fromDate":"2024-01-01","toDate":"2024-01-05"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
