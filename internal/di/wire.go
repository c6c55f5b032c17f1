//go:build wireinject
// +build wireinject

package di

import (
	"StockHistory/internal/client"
	"StockHistory/pkg/config"
	"StockHistory/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideMarketDataProvider,
	ProvideSymbolsUseCase,
	ProvideHistoryUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		coreSet,

		// HTTP
		ProvideMarketHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeLocalBackend wires the use cases for the embedded viewer.
func InitializeLocalBackend(cfg *config.Config) (*client.Local, error) {
	wire.Build(
		coreSet,
		ProvideLocalBackend,
	)
	return &client.Local{}, nil
}
