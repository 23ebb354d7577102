package domain

// Ticker24h is the rolling 24-hour statistics snapshot for one symbol.
type Ticker24h struct {
	Symbol             string
	LastPrice          float64
	Volume             float64 // Base asset volume
	QuoteVolume        float64
	HighPrice          float64
	LowPrice           float64
	OpenPrice          float64
	PriceChange        float64
	PriceChangePercent float64
}
