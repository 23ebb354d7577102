package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoseManuelOberreuter/Binance-API/config"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/binanceclient"
	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/logger"
	"github.com/JoseManuelOberreuter/Binance-API/internal/app"
	"github.com/JoseManuelOberreuter/Binance-API/internal/cache"
	"github.com/JoseManuelOberreuter/Binance-API/internal/calculator"
	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	symbol := flag.String("symbol", cfg.DefaultSymbol, "Trading pair, e.g. BTCUSDT")
	investment := flag.String("investment", "100", "Amount invested in quote currency")
	entry := flag.String("entry", "0", "Entry price (0 uses the current price)")
	target := flag.String("target", "10", "Target percentage or price, see -type")
	targetType := flag.String("type", string(calculator.TargetPercentage), "Target type: percentage or price")
	flag.Parse()

	in := calculator.Input{TargetType: calculator.TargetType(strings.ToLower(*targetType))}
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"investment", *investment, &in.Investment},
		{"entry", *entry, &in.EntryPrice},
		{"target", *target, &in.TargetValue},
	} {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			log.Fatalf("Invalid -%s %q: %v", f.name, f.raw, err)
		}
		*f.dst = v
	}

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
	sym := strings.ToUpper(*symbol)

	if in.EntryPrice.IsZero() {
		price, err := currentPrice(ctx, cfg, appLogger, sym)
		if err != nil {
			log.Fatalf("Error loading current price: %v", err)
		}
		in.EntryPrice = decimal.NewFromFloat(price)
		appLogger.Info(ctx, "Using current price as entry", map[string]interface{}{"symbol": sym, "price": price})
	}

	res, err := calculator.Calculate(in)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Pair:          %s (%s)\n", sym, domain.NameOf(domain.DefaultAssets, sym))
	fmt.Printf("Entry price:   %s\n", in.EntryPrice.StringFixed(2))
	fmt.Printf("Target price:  %s\n", res.TargetPrice.StringFixed(2))
	fmt.Printf("Coins bought:  %s\n", res.Coins.StringFixed(8))
	fmt.Printf("Profit:        %s (%s%%)\n", res.Profit.StringFixed(2), res.ProfitPercentage.StringFixed(2))
	fmt.Printf("Total:         %s\n", res.Total.StringFixed(2))
}

func currentPrice(ctx context.Context, cfg *config.Config, appLogger ports.Logger, symbol string) (float64, error) {
	binanceClient, err := binanceclient.New(binanceclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		return 0, err
	}
	market, err := app.NewMarketDataService(app.MarketDataConfig{
		KlinesTTL: cfg.KlinesTTL,
		TickerTTL: cfg.TickerTTL,
	}, appLogger, binanceClient, cache.New())
	if err != nil {
		return 0, err
	}
	dash, err := app.NewDashboard(market, domain.DefaultAssets, appLogger)
	if err != nil {
		return 0, err
	}
	return dash.Quote(ctx, symbol)
}
