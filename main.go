package main

import (
	"context"
	"io"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JoseManuelOberreuter/Binance-API/config"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/binanceclient"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/logger"
	"github.com/JoseManuelOberreuter/Binance-API/internal/app"
	"github.com/JoseManuelOberreuter/Binance-API/internal/cache"
	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
	"github.com/JoseManuelOberreuter/Binance-API/internal/timerange"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger. The dashboard owns the terminal, so logs only go
	// somewhere when LOG_FILE is set.
	logOut, closeLog, err := logger.OpenOutput(cfg.LogFile, io.Discard)
	if err != nil {
		log.Fatalf("FATAL: Failed to open log file: %v", err)
	}
	defer closeLog()
	appLogger, err := logger.New(cfg.LogFormat, logOut, cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// Connectivity is only reported; the dashboard keeps retrying on refresh.
	var status string
	if err := binanceClient.Ping(ctx); err != nil {
		appLogger.Warn(ctx, "Exchange not reachable at start-up", map[string]interface{}{"error": err.Error()})
		status = "Exchange not reachable, retrying on next refresh"
	}

	// 4. Initialize Market Data Service and Dashboard
	market, err := app.NewMarketDataService(app.MarketDataConfig{
		KlinesTTL: cfg.KlinesTTL,
		TickerTTL: cfg.TickerTTL,
	}, appLogger, binanceClient, cache.New())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize market data service: %v", err)
	}
	dash, err := app.NewDashboard(market, domain.DefaultAssets, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize dashboard: %v", err)
	}

	// 5. Run the terminal dashboard
	m := newModel(dash, cfg.RefreshInterval, strings.ToUpper(cfg.DefaultSymbol), timerange.Label(cfg.DefaultRange), status)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		appLogger.Error(ctx, err, "Dashboard exited with error")
		log.Fatalf("FATAL: Dashboard exited with error: %v", err)
	}
	appLogger.Info(ctx, "Application finished gracefully.")
}
