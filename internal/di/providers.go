package di

import (
	"fmt"

	"StockHistory/internal/client"
	"StockHistory/internal/domain/repository"
	"StockHistory/internal/handler/api"
	"StockHistory/internal/service/eodhd"
	"StockHistory/internal/service/yahoo"
	"StockHistory/internal/usecase"
	"StockHistory/pkg/config"
	xhttp "StockHistory/pkg/http"
	applogger "StockHistory/pkg/logger"
	"StockHistory/pkg/metrics"
	"StockHistory/pkg/server"
)

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketDataProvider selects the upstream quote source.
func ProvideMarketDataProvider(cfg *config.Config, l *applogger.Logger) (repository.MarketDataProvider, error) {
	p := cfg.Provider
	switch p.Type {
	case "yahoo":
		return yahoo.NewClient(
			yahoo.WithSearchURL(p.Yahoo.SearchURL),
			yahoo.WithChartURL(p.Yahoo.ChartURL),
			yahoo.WithUserAgent(p.Yahoo.UserAgent),
			yahoo.WithTimeout(p.Yahoo.Timeout),
			yahoo.WithLogger(l),
		), nil
	case "eodhd":
		return eodhd.NewClient(p.EODHD.APIKey,
			eodhd.WithBaseURL(p.EODHD.BaseURL),
			eodhd.WithRateLimit(p.EODHD.RateLimit),
			eodhd.WithTimeout(p.EODHD.Timeout),
			eodhd.WithLogger(l),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", p.Type)
	}
}

// ProvideSymbolsUseCase creates the symbol search use case.
func ProvideSymbolsUseCase(
	provider repository.MarketDataProvider,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SymbolsUseCase {
	return usecase.NewSymbolsUseCase(provider, m,
		usecase.WithMaxResults(cfg.Provider.MaxResults),
		usecase.WithSymbolsLogger(l),
	)
}

// ProvideHistoryUseCase creates the historical bars use case.
func ProvideHistoryUseCase(provider repository.MarketDataProvider, m repository.Metrics, l *applogger.Logger) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(provider, m, l)
}

// ProvideMarketHandler exposes the use cases over echo.
func ProvideMarketHandler(l *applogger.Logger, symbols *usecase.SymbolsUseCase, history *usecase.HistoryUseCase) xhttp.Handler {
	return api.NewMarketEchoHandler(l, symbols, history)
}

// ProvideHTTPServer builds the echo server from the server and metrics sections.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithSlowRequestThreshold(cfg.Server.SlowRequest),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, provider repository.MarketDataProvider, l *applogger.Logger) *server.App {
	return server.New(cfg, srv, provider.Name(), l)
}

// ProvideLocalBackend serves the terminal viewer in-process.
func ProvideLocalBackend(symbols *usecase.SymbolsUseCase, history *usecase.HistoryUseCase) *client.Local {
	return client.NewLocal(symbols, history)
}
