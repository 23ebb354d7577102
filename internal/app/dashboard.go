package app

import (
	"context"
	"fmt"

	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
	"github.com/JoseManuelOberreuter/Binance-API/internal/timerange"
)

// Row is one line of the price table.
type Row struct {
	Name   string
	Ticker *domain.Ticker24h
}

// ChartView is everything a renderer needs to draw one price chart.
type ChartView struct {
	Symbol   string
	Name     string
	Range    timerange.Label
	Interval string
	Points   []timerange.Point
	Change   timerange.PriceChange
}

// Dashboard composes market data into the views shown to users. It holds
// no state of its own; freshness is the MarketData cache's concern.
type Dashboard struct {
	market ports.MarketData
	assets []domain.Asset
	logger ports.Logger
}

// NewDashboard creates a dashboard over assets, which fixes the table order.
func NewDashboard(market ports.MarketData, assets []domain.Asset, logger ports.Logger) (*Dashboard, error) {
	if market == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for Dashboard")
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("dashboard needs at least one asset")
	}
	return &Dashboard{market: market, assets: assets, logger: logger}, nil
}

// Assets returns the catalog in table order.
func (d *Dashboard) Assets() []domain.Asset {
	return d.assets
}

// Table returns one row per asset, in catalog order.
func (d *Dashboard) Table(ctx context.Context) ([]Row, error) {
	tickers, err := d.market.GetMultipleTickers(ctx, domain.Symbols(d.assets))
	if err != nil {
		return nil, fmt.Errorf("loading price table: %w", err)
	}
	rows := make([]Row, len(tickers))
	for i, t := range tickers {
		rows[i] = Row{Name: d.assets[i].Name, Ticker: t}
	}
	return rows, nil
}

// Chart resolves label, loads the matching klines for symbol and derives the
// plotted points and the price change over the range.
func (d *Dashboard) Chart(ctx context.Context, symbol string, label timerange.Label) (*ChartView, error) {
	params := timerange.Resolve(string(label))
	klines, err := d.market.GetKlines(ctx, symbol, params.Interval, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("loading %s chart for %s: %w", label, symbol, err)
	}
	change := timerange.ComputeChange(klines)
	d.logger.Debug(ctx, "Chart prepared", map[string]interface{}{
		"symbol":   symbol,
		"range":    string(label),
		"interval": params.Interval,
		"points":   len(klines),
		"change":   change.Percentage,
	})
	return &ChartView{
		Symbol:   symbol,
		Name:     domain.NameOf(d.assets, symbol),
		Range:    label,
		Interval: params.Interval,
		Points:   timerange.Points(klines),
		Change:   change,
	}, nil
}

// Quote returns the last traded price of symbol.
func (d *Dashboard) Quote(ctx context.Context, symbol string) (float64, error) {
	tickers, err := d.market.GetMultipleTickers(ctx, []string{symbol})
	if err != nil {
		return 0, fmt.Errorf("loading quote for %s: %w", symbol, err)
	}
	return tickers[0].LastPrice, nil
}
