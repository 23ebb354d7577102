package domain

// Asset pairs a tradable symbol with the name shown to users.
type Asset struct {
	Symbol string // e.g. "BTCUSDT"
	Name   string // e.g. "Bitcoin"
}

// DefaultAssets is the fixed catalog shown by the dashboard. Order matters:
// tables render in this order.
var DefaultAssets = []Asset{
	{Symbol: "BTCUSDT", Name: "Bitcoin"},
	{Symbol: "ETHUSDT", Name: "Ethereum"},
	{Symbol: "BNBUSDT", Name: "Binance Coin"},
	{Symbol: "XRPUSDT", Name: "Ripple"},
	{Symbol: "ADAUSDT", Name: "Cardano"},
	{Symbol: "SOLUSDT", Name: "Solana"},
	{Symbol: "DOTUSDT", Name: "Polkadot"},
	{Symbol: "DOGEUSDT", Name: "Dogecoin"},
	{Symbol: "MATICUSDT", Name: "Polygon"},
	{Symbol: "LTCUSDT", Name: "Litecoin"},
	{Symbol: "AVAXUSDT", Name: "Avalanche"},
	{Symbol: "LINKUSDT", Name: "Chainlink"},
	{Symbol: "UNIUSDT", Name: "Uniswap"},
	{Symbol: "ATOMUSDT", Name: "Cosmos"},
	{Symbol: "XLMUSDT", Name: "Stellar"},
}

// Symbols returns the symbols of assets in catalog order.
func Symbols(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Symbol
	}
	return out
}

// NameOf returns the display name for symbol, or the symbol itself when the
// catalog does not know it.
func NameOf(assets []Asset, symbol string) string {
	for _, a := range assets {
		if a.Symbol == symbol {
			return a.Name
		}
	}
	return symbol
}
