package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JoseManuelOberreuter/Binance-API/internal/cache"
	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
)

const (
	DefaultKlinesTTL = 5 * time.Minute
	DefaultTickerTTL = 30 * time.Second
)

// MarketDataService implements ports.MarketData: exchange reads behind a
// shared time-bucketed cache.
type MarketDataService struct {
	exchange  ports.ExchangeClient
	cache     *cache.Cache
	logger    ports.Logger
	klinesTTL time.Duration
	tickerTTL time.Duration
}

// MarketDataConfig holds the freshness windows. Zero values use the defaults.
type MarketDataConfig struct {
	KlinesTTL time.Duration
	TickerTTL time.Duration
}

// NewMarketDataService creates the service. The cache is owned by the caller
// so it can be shared and inspected.
func NewMarketDataService(cfg MarketDataConfig, logger ports.Logger, exchange ports.ExchangeClient, c *cache.Cache) (*MarketDataService, error) {
	if logger == nil || exchange == nil || c == nil {
		return nil, fmt.Errorf("missing required dependencies for MarketDataService")
	}
	if cfg.KlinesTTL <= 0 {
		cfg.KlinesTTL = DefaultKlinesTTL
	}
	if cfg.TickerTTL <= 0 {
		cfg.TickerTTL = DefaultTickerTTL
	}
	return &MarketDataService{
		exchange:  exchange,
		cache:     c,
		logger:    logger,
		klinesTTL: cfg.KlinesTTL,
		tickerTTL: cfg.TickerTTL,
	}, nil
}

// GetKlines returns the cached series while younger than the klines TTL,
// otherwise fetches and stores a new one. The returned slice is shared with
// the cache and must not be modified.
func (s *MarketDataService) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	key := cache.KlinesKey(symbol, interval, limit)
	klines, hit, err := cache.Load(ctx, s.cache, key, s.klinesTTL, func(ctx context.Context) ([]*domain.Kline, error) {
		return s.exchange.FetchKlines(ctx, symbol, interval, limit)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "Klines served", map[string]interface{}{"key": key.String(), "cacheHit": hit, "count": len(klines)})
	return klines, nil
}

// GetTicker24h returns the cached ticker while younger than the ticker TTL,
// otherwise fetches and stores a new one.
func (s *MarketDataService) GetTicker24h(ctx context.Context, symbol string) (*domain.Ticker24h, error) {
	key := cache.TickerKey(symbol)
	ticker, hit, err := cache.Load(ctx, s.cache, key, s.tickerTTL, func(ctx context.Context) (*domain.Ticker24h, error) {
		return s.exchange.FetchTicker24h(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "Ticker served", map[string]interface{}{"key": key.String(), "cacheHit": hit})
	return ticker, nil
}

// GetMultipleTickers starts one GetTicker24h per symbol and waits for all of
// them. Results keep the order of symbols. The first failure is returned and
// the other results are dropped; in-flight siblings are not aborted.
func (s *MarketDataService) GetMultipleTickers(ctx context.Context, symbols []string) ([]*domain.Ticker24h, error) {
	out := make([]*domain.Ticker24h, len(symbols))

	var g errgroup.Group
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			t, err := s.GetTicker24h(ctx, symbol)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn(ctx, "Batch ticker fetch failed", map[string]interface{}{"symbols": len(symbols), "error": err.Error()})
		return nil, err
	}
	return out, nil
}
