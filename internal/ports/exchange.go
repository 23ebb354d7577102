package ports

import (
	"context"

	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
)

// ExchangeClient is the uncached view of an exchange's public market data
// REST surface. Every call goes to the network; failures are returned as
// *DataFetchError.
type ExchangeClient interface {
	// FetchKlines retrieves up to limit klines for symbol, oldest first.
	FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)

	// FetchTicker24h retrieves the 24-hour statistics for symbol.
	FetchTicker24h(ctx context.Context, symbol string) (*domain.Ticker24h, error)

	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error
}

// MarketData is the cached market data surface consumed by the UI layer.
type MarketData interface {
	// GetKlines returns the kline series for symbol/interval/limit, served
	// from cache while fresh.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)

	// GetTicker24h returns the 24h ticker for symbol, served from cache while fresh.
	GetTicker24h(ctx context.Context, symbol string) (*domain.Ticker24h, error)

	// GetMultipleTickers fetches all symbols concurrently. The result order
	// matches symbols; any single failure fails the whole call.
	GetMultipleTickers(ctx context.Context, symbols []string) ([]*domain.Ticker24h, error)
}
