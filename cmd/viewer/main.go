package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"StockHistory/internal/client"
	"StockHistory/internal/di"
	"StockHistory/internal/viewer"
	"StockHistory/pkg/config"
	applogger "StockHistory/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	embedded := flag.Bool("embedded", false, "query the market data provider directly instead of the API")
	apiURL := flag.String("api", "", "API base URL (overrides viewer.api_url)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *apiURL != "" {
		cfg.Viewer.APIURL = *apiURL
	}

	// stdout belongs to the TUI
	cfg.Logging.Output = cfg.Viewer.LogFile
	cfg.Logging.Format = "json"
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	l = l.With(applogger.String("component", "viewer"))

	var backend viewer.Backend
	if *embedded {
		local, err := di.InitializeLocalBackend(cfg)
		if err != nil {
			log.Fatalf("backend initialization failed: %v", err)
		}
		backend = local
		l.Info("viewer backend", applogger.String("mode", "embedded"), applogger.String("provider", cfg.Provider.Type))
	} else {
		backend = client.New(cfg.Viewer.APIURL, client.WithTimeout(cfg.Viewer.Timeout))
		l.Info("viewer backend", applogger.String("mode", "api"), applogger.String("url", cfg.Viewer.APIURL))
	}

	initial := viewer.NewState(time.Now())
	ctrl := viewer.NewController(backend,
		viewer.WithDebounce(cfg.Viewer.Debounce),
		viewer.WithMinQueryLength(cfg.Viewer.MinQueryLength),
		viewer.WithInitialState(initial),
		viewer.WithLogger(l),
	)

	p := tea.NewProgram(newModel(ctrl, initial, cfg.Viewer.OutDir, cfg.Viewer.MinQueryLength), tea.WithAltScreen())
	ctrl.Subscribe(func(s viewer.State) { p.Send(stateMsg{s: s}) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	_, runErr := p.Run()
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		l.Error("controller stopped", applogger.Error(err))
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", runErr)
		os.Exit(1)
	}
}
