package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/JoseManuelOberreuter/Binance-API/config"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/binanceclient"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/logger"
	"github.com/JoseManuelOberreuter/Binance-API/internal/app"
	"github.com/JoseManuelOberreuter/Binance-API/internal/cache"
	"github.com/JoseManuelOberreuter/Binance-API/internal/timerange"
	"github.com/JoseManuelOberreuter/Binance-API/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	symbol := flag.String("symbol", cfg.DefaultSymbol, "Trading pair, e.g. BTCUSDT")
	rangeLabel := flag.String("range", cfg.DefaultRange, "Time range: 24h, 1w, 1M, 3M, 1y or All")
	out := flag.String("out", "", "Output CSV file (default stdout)")
	flag.Parse()

	// 2. Initialize Logger. Logs go to LOG_FILE or stderr so CSV on stdout stays clean.
	logOut, closeLog, err := logger.OpenOutput(cfg.LogFile, os.Stderr)
	if err != nil {
		log.Fatalf("FATAL: Failed to open log file: %v", err)
	}
	defer closeLog()
	appLogger, err := logger.New(cfg.LogFormat, logOut, cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 4. Initialize Market Data Service
	market, err := app.NewMarketDataService(app.MarketDataConfig{
		KlinesTTL: cfg.KlinesTTL,
		TickerTTL: cfg.TickerTTL,
	}, appLogger, binanceClient, cache.New())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize market data service: %v", err)
	}

	sym := strings.ToUpper(*symbol)
	params := timerange.Resolve(*rangeLabel)
	appLogger.Info(ctx, "Fetching klines", map[string]interface{}{
		"symbol":   sym,
		"range":    *rangeLabel,
		"interval": params.Interval,
		"limit":    params.Limit,
	})

	klines, err := market.GetKlines(ctx, sym, params.Interval, params.Limit)
	if err != nil {
		log.Fatalf("Error fetching klines: %v", err)
	}

	change := timerange.ComputeChange(klines)
	appLogger.Info(ctx, "Fetched klines", map[string]interface{}{
		"count":          len(klines),
		"change":         change.Absolute,
		"change_percent": fmt.Sprintf("%.2f", change.Percentage),
	})

	if *out == "" {
		if err := utils.WriteKlinesCSV(os.Stdout, klines); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
		return
	}
	if err := utils.SaveKlinesCSV(afero.NewOsFs(), *out, klines); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved to", map[string]interface{}{"filename": *out})
}
