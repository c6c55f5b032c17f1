// Package client is the HTTP client for the StockHistory API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockHistory/internal/domain/models"
	"StockHistory/internal/export"
	xhttp "StockHistory/pkg/http"
)

// APIError is a non-2xx reply decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client calls /api/activos and /api/historico.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// Option configures Client.
type Option func(*options)

type options struct {
	timeout time.Duration
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	o := &options{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: xhttp.NewClient(
			xhttp.WithTimeout(o.timeout),
			xhttp.WithHeader("Accept", "application/json"),
		),
	}
}

// SearchSymbols calls GET /api/activos.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	var out []models.SymbolMatch
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/api/activos",
		QueryParams: map[string][]string{"query": {query}},
	}, &out)
	if err != nil {
		return nil, decodeError(err, "error retrieving symbols")
	}
	if out == nil {
		out = []models.SymbolMatch{}
	}
	return out, nil
}

// GetHistory calls POST /api/historico.
func (c *Client) GetHistory(ctx context.Context, req models.HistoryRequest) ([]models.Bar, error) {
	var out []models.Bar
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/api/historico",
		Body:   req,
	}, &out)
	if err != nil {
		return nil, decodeError(err, "error retrieving historical data")
	}
	if out == nil {
		out = []models.Bar{}
	}
	return out, nil
}

// DownloadCSV calls POST /api/historico/csv. Returns nil content when the range holds no bars.
func (c *Client) DownloadCSV(ctx context.Context, req models.HistoryRequest) (string, []byte, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.baseURL + "/api/historico/csv",
		Headers: map[string]string{"Accept": "text/csv"},
		Body:    req,
	}, &body)
	if err != nil {
		return "", nil, decodeError(err, "error retrieving historical data")
	}
	if len(body) == 0 {
		return "", nil, nil
	}
	return export.FileName(req.Symbol, req.FromDate, req.ToDate), body, nil
}

// decodeError turns a StatusError into *APIError, using fallback when the body has no message.
func decodeError(err error, fallback string) error {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	apiErr := &APIError{StatusCode: se.StatusCode}
	if json.Unmarshal(se.Body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = fallback
	}
	return apiErr
}
