package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
)

var klineHeader = []string{
	"open_time", "close_time", "symbol", "interval",
	"open", "high", "low", "close", "volume",
	"quote_asset_volume", "trade_count", "taker_buy_base_volume", "taker_buy_quote_volume",
}

// WriteKlinesCSV writes the series as CSV, one row per kline, oldest first.
func WriteKlinesCSV(w io.Writer, klines []*domain.Kline) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(klineHeader); err != nil {
		return err
	}
	for _, k := range klines {
		if err := writer.Write([]string{
			k.OpenTime.UTC().Format(time.RFC3339),
			k.CloseTime.UTC().Format(time.RFC3339),
			k.Symbol,
			k.Interval,
			formatFloat(k.Open),
			formatFloat(k.High),
			formatFloat(k.Low),
			formatFloat(k.Close),
			formatFloat(k.Volume),
			k.QuoteAssetVolume,
			strconv.FormatInt(k.TradeCount, 10),
			k.TakerBuyBaseAssetVolume,
			k.TakerBuyQuoteAssetVolume,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveKlinesCSV writes the series to filename on fs, creating parent
// directories as needed.
func SaveKlinesCSV(fs afero.Fs, filename string, klines []*domain.Kline) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	file, err := fs.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	if err := WriteKlinesCSV(file, klines); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
