package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
)

const (
	// BaseURLProduction is the public spot REST host; endpoints live under /api/v3.
	BaseURLProduction = "https://api.binance.com"

	defaultTimeout = 10 * time.Second
)

// Client implements ports.ExchangeClient over the Binance public spot API
// using the go-binance library. It never retries.
type Client struct {
	spotClient *binance.Client
	logger     ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	BaseURL string        // Defaults to BaseURLProduction
	Timeout time.Duration // Whole-request budget, defaults to 10s
	Logger  ports.Logger
	// Transport is the underlying round tripper, http.DefaultTransport if nil.
	Transport http.RoundTripper
}

// New creates a new Binance client adapter. No credentials are used: only
// public market data endpoints are called.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURLProduction
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	client := binance.NewClient("", "")
	client.BaseURL = baseURL
	client.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &captureTransport{next: next},
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": baseURL, "timeout": timeout.String()})

	return &Client{
		spotClient: client,
		logger:     cfg.Logger,
	}, nil
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	op := "Ping"
	ctx, capture := withCapture(ctx)
	if err := c.spotClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, op, capture)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// FetchKlines retrieves historical klines/candlestick data for the given symbol.
func (c *Client) FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	op := "GetKlines"
	ctx, capture := withCapture(ctx)

	binanceKlines, err := c.spotClient.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op, capture)
	}

	domainKlines := make([]*domain.Kline, 0, len(binanceKlines))
	for _, bk := range binanceKlines {
		dk, err := translateBinanceKline(bk, symbol, interval)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op, capture)
		}
		domainKlines = append(domainKlines, dk)
	}

	c.logger.Debug(ctx, op+" successful", map[string]interface{}{"symbol": symbol, "interval": interval, "limit": limit, "count": len(domainKlines)})
	return domainKlines, nil
}

// FetchTicker24h retrieves the rolling 24h statistics for symbol.
func (c *Client) FetchTicker24h(ctx context.Context, symbol string) (*domain.Ticker24h, error) {
	op := "GetTicker24h"
	ctx, capture := withCapture(ctx)

	stats, err := c.spotClient.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op, capture)
	}
	if len(stats) == 0 {
		err := fmt.Errorf("no ticker data returned for symbol %s", symbol)
		return nil, c.handleError(ctx, err, op, capture)
	}

	ticker, err := translatePriceChangeStats(stats[0])
	if err != nil {
		return nil, c.handleError(ctx, fmt.Errorf("failed to translate ticker: %w", err), op, capture)
	}
	return ticker, nil
}

// --- Translation Helpers ---

func translateBinanceKline(bk *binance.Kline, symbol, interval string) (*domain.Kline, error) {
	if bk == nil {
		return nil, errors.New("received nil kline")
	}
	open, err := strconv.ParseFloat(bk.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price '%s': %w", bk.Open, err)
	}
	high, err := strconv.ParseFloat(bk.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price '%s': %w", bk.High, err)
	}
	low, err := strconv.ParseFloat(bk.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price '%s': %w", bk.Low, err)
	}
	cls, err := strconv.ParseFloat(bk.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price '%s': %w", bk.Close, err)
	}
	vol, err := strconv.ParseFloat(bk.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume '%s': %w", bk.Volume, err)
	}

	return &domain.Kline{
		OpenTime:                 time.UnixMilli(bk.OpenTime),
		CloseTime:                time.UnixMilli(bk.CloseTime),
		Symbol:                   symbol,
		Interval:                 interval,
		Open:                     open,
		High:                     high,
		Low:                      low,
		Close:                    cls,
		Volume:                   vol,
		IsFinal:                  time.UnixMilli(bk.CloseTime).Before(time.Now()),
		QuoteAssetVolume:         bk.QuoteAssetVolume,
		TradeCount:               bk.TradeNum,
		TakerBuyBaseAssetVolume:  bk.TakerBuyBaseAssetVolume,
		TakerBuyQuoteAssetVolume: bk.TakerBuyQuoteAssetVolume,
	}, nil
}

func translatePriceChangeStats(s *binance.PriceChangeStats) (*domain.Ticker24h, error) {
	if s == nil {
		return nil, errors.New("received nil ticker")
	}
	t := &domain.Ticker24h{Symbol: s.Symbol}
	for _, f := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"lastPrice", s.LastPrice, &t.LastPrice},
		{"volume", s.Volume, &t.Volume},
		{"quoteVolume", s.QuoteVolume, &t.QuoteVolume},
		{"highPrice", s.HighPrice, &t.HighPrice},
		{"lowPrice", s.LowPrice, &t.LowPrice},
		{"openPrice", s.OpenPrice, &t.OpenPrice},
		{"priceChange", s.PriceChange, &t.PriceChange},
		{"priceChangePercent", s.PriceChangePercent, &t.PriceChangePercent},
	} {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s '%s': %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return t, nil
}
