// Package yahoo implements the market data provider on Yahoo Finance's public JSON endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"StockHistory/internal/domain/models"
	domrepo "StockHistory/internal/domain/repository"
	xhttp "StockHistory/pkg/http"
	applogger "StockHistory/pkg/logger"
	"StockHistory/pkg/util"
)

const (
	DefaultSearchURL = "https://query2.finance.yahoo.com"
	DefaultChartURL  = "https://query1.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 15 * time.Second
)

// Client implements domrepo.MarketDataProvider.
type Client struct {
	searchURL string
	chartURL  string
	userAgent string
	timeout   time.Duration
	http      *xhttp.Client
	log       *applogger.Logger
}

var _ domrepo.MarketDataProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL points both search and chart calls at one host. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.searchURL = u
		c.chartURL = u
	}
}

// WithSearchURL sets the search host.
func WithSearchURL(u string) ClientOption {
	return func(c *Client) { c.searchURL = u }
}

// WithChartURL sets the chart host.
func WithChartURL(u string) ClientOption {
	return func(c *Client) { c.chartURL = u }
}

// WithUserAgent sets the User-Agent header; Yahoo rejects requests without one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the HTTP timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		searchURL: DefaultSearchURL,
		chartURL:  DefaultChartURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		log:       applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(
		xhttp.WithTimeout(c.timeout),
		xhttp.WithHeader("User-Agent", c.userAgent),
		xhttp.WithHeader("Accept", "application/json"),
	)
	return c
}

func (c *Client) Name() string { return "yahoo" }

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type searchResponse struct {
	Quotes []struct {
		Symbol         string `json:"symbol"`
		ShortName      string `json:"shortname"`
		LongName       string `json:"longname"`
		Name           string `json:"name"`
		Exchange       string `json:"exchange"`
		QuoteType      string `json:"quoteType"`
		IsYahooFinance bool   `json:"isYahooFinance"`
	} `json:"quotes"`
}

// Search queries /v1/finance/search.
func (c *Client) Search(ctx context.Context, text string, opts domrepo.SearchOptions) ([]models.ProviderQuote, error) {
	const endpoint = "/v1/finance/search"

	newsCount := 0
	if opts.IncludeNews {
		newsCount = opts.MaxResults
	}

	var resp searchResponse
	if err := c.get(ctx, c.searchURL, endpoint, map[string][]string{
		"q":           {text},
		"quotesCount": {strconv.Itoa(opts.MaxResults)},
		"newsCount":   {strconv.Itoa(newsCount)},
	}, &resp); err != nil {
		return nil, err
	}

	out := make([]models.ProviderQuote, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		out = append(out, models.ProviderQuote{
			Symbol:    q.Symbol,
			ShortName: q.ShortName,
			LongName:  q.LongName,
			Name:      q.Name,
			Exchange:  q.Exchange,
			QuoteType: q.QuoteType,
			Valid:     q.IsYahooFinance,
		})
	}
	return out, nil
}

// chartResponse is the v8 chart payload. Price arrays hold null on non-trading rows.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *chartError `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Historical queries /v8/finance/chart/{symbol}. Period2 is widened by one day so
// the bar dated Period2 is included.
func (c *Client) Historical(ctx context.Context, symbol string, opts domrepo.HistoricalOptions) ([]models.ProviderBar, error) {
	endpoint := "/v8/finance/chart/" + url.PathEscape(symbol)

	interval := domrepo.NormalizeInterval(string(opts.Interval))
	p1 := util.TruncateDay(opts.Period1)
	p2 := util.TruncateDay(opts.Period2).AddDate(0, 0, 1)

	var resp chartResponse
	if err := c.get(ctx, c.chartURL, endpoint, map[string][]string{
		"period1":  {strconv.FormatInt(p1.Unix(), 10)},
		"period2":  {strconv.FormatInt(p2.Unix(), 10)},
		"interval": {string(interval)},
		"events":   {"div,split"},
	}, &resp); err != nil {
		return nil, err
	}

	if e := resp.Chart.Error; e != nil {
		return nil, &APIError{StatusCode: 200, Message: e.Description, Endpoint: endpoint}
	}
	if len(resp.Chart.Result) == 0 {
		return []models.ProviderBar{}, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []models.ProviderBar{}, nil
	}
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.ProviderBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, cl := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil && h == nil && l == nil && cl == nil {
			continue
		}
		bar := models.ProviderBar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   deref(o),
			High:   deref(h),
			Low:    deref(l),
			Close:  deref(cl),
			Volume: int64(deref(at(quote.Volume, i))),
		}
		if a := at(adj, i); a != nil {
			bar.AdjClose = *a
		} else {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}

	c.log.Debug("yahoo chart fetched",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(result.Timestamp)),
		applogger.Int("bars", len(bars)),
	)
	return bars, nil
}

func (c *Client) get(ctx context.Context, base, endpoint string, params map[string][]string, dest interface{}) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         base + endpoint,
		QueryParams: params,
	}, dest)
	if err != nil {
		c.log.Debug("yahoo request failed",
			applogger.String("endpoint", endpoint),
			applogger.Duration("duration_ms", time.Since(start)),
			applogger.Error(err),
		)
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			return &APIError{StatusCode: se.StatusCode, Message: errorMessage(se.Body), Endpoint: endpoint}
		}
		return fmt.Errorf("yahoo %s: %w", endpoint, err)
	}
	return nil
}

// errorMessage extracts chart.error.description or finance.error.description when present.
func errorMessage(body []byte) string {
	var env struct {
		Chart struct {
			Error *chartError `json:"error"`
		} `json:"chart"`
		Finance struct {
			Error *chartError `json:"error"`
		} `json:"finance"`
	}
	if json.Unmarshal(body, &env) == nil {
		if e := env.Chart.Error; e != nil && e.Description != "" {
			return e.Description
		}
		if e := env.Finance.Error; e != nil && e.Description != "" {
			return e.Description
		}
	}
	return string(body)
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
