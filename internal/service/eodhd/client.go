// Package eodhd implements the market data provider on the EODHD API.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"StockHistory/internal/domain/models"
	domrepo "StockHistory/internal/domain/repository"
	applogger "StockHistory/pkg/logger"
	"StockHistory/pkg/util"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements domrepo.MarketDataProvider
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *applogger.Logger
	limiter    *rate.Limiter
}

var _ domrepo.MarketDataProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithRateLimit sets the outbound request budget per second.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:     applogger.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Name() string { return "eodhd" }

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eodhd api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug("eodhd request", applogger.String("url", c.baseURL+path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type searchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"` // "Common Stock", "ETF", "FUND", ...
}

// Search calls /search/{query}. Symbols come back as CODE.EXCHANGE so they can be
// passed straight to Historical.
func (c *Client) Search(ctx context.Context, text string, opts domrepo.SearchOptions) ([]models.ProviderQuote, error) {
	params := url.Values{}
	if opts.MaxResults > 0 {
		params.Set("limit", strconv.Itoa(opts.MaxResults))
	}

	var results []searchResult
	if err := c.get(ctx, "/search/"+url.PathEscape(text), params, &results); err != nil {
		return nil, err
	}

	out := make([]models.ProviderQuote, 0, len(results))
	for _, r := range results {
		symbol := r.Code
		if r.Exchange != "" {
			symbol = r.Code + "." + r.Exchange
		}
		out = append(out, models.ProviderQuote{
			Symbol:    symbol,
			Name:      r.Name,
			Exchange:  r.Exchange,
			QuoteType: string(instrumentType(r.Type)),
			Valid:     true,
		})
	}
	return out, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string      `json:"date"`
	Open          float64     `json:"open"`
	High          float64     `json:"high"`
	Low           float64     `json:"low"`
	Close         float64     `json:"close"`
	AdjustedClose float64     `json:"adjusted_close"`
	Volume        json.Number `json:"volume"`
}

// Historical calls /eod/{ticker}; from and to are both inclusive on this endpoint.
func (c *Client) Historical(ctx context.Context, symbol string, opts domrepo.HistoricalOptions) ([]models.ProviderBar, error) {
	params := url.Values{}
	params.Set("period", period(opts.Interval))
	params.Set("order", "d")
	if !opts.Period1.IsZero() {
		params.Set("from", util.FormatDate(opts.Period1))
	}
	if !opts.Period2.IsZero() {
		params.Set("to", util.FormatDate(opts.Period2))
	}

	var rows []eodBarResponse
	if err := c.get(ctx, "/eod/"+url.PathEscape(symbol), params, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.ProviderBar, 0, len(rows))
	for _, r := range rows {
		date, err := util.ParseDate(r.Date)
		if err != nil {
			c.log.Warn("eodhd: skipping row with bad date", applogger.String("symbol", symbol), applogger.String("date", r.Date))
			continue
		}
		vol, _ := r.Volume.Float64()
		bars = append(bars, models.ProviderBar{
			Time:     date,
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjustedClose,
			Volume:   int64(vol),
		})
	}
	return bars, nil
}

func instrumentType(t string) models.InstrumentType {
	switch t {
	case "Common Stock":
		return models.InstrumentEquity
	case "ETF":
		return models.InstrumentETF
	default:
		return models.InstrumentType(t)
	}
}

func period(interval domrepo.Interval) string {
	switch interval {
	case domrepo.IntervalWeekly:
		return "w"
	case domrepo.IntervalMonthly:
		return "m"
	default:
		return "d"
	}
}
