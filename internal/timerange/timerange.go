// Package timerange maps the dashboard's coarse range selections onto
// Binance kline parameters and derives chart data from the result.
package timerange

import (
	"time"

	"github.com/JoseManuelOberreuter/Binance-API/internal/domain"
)

// Label is a user-facing range selection.
type Label string

const (
	Range24h     Label = "24h"
	Range1w      Label = "1w"
	Range1M      Label = "1M"
	Range3M      Label = "3M"
	Range1y      Label = "1y"
	RangeAll     Label = "All"
	DefaultRange       = Range1M
)

// Params are the kline request parameters for a range.
type Params struct {
	Interval string // Binance interval code
	Limit    int    // Number of klines
}

var table = map[Label]Params{
	Range24h: {Interval: "1h", Limit: 24},
	Range1w:  {Interval: "4h", Limit: 42},
	Range1M:  {Interval: "1d", Limit: 30},
	Range3M:  {Interval: "1d", Limit: 90},
	Range1y:  {Interval: "1w", Limit: 52},
	RangeAll: {Interval: "1M", Limit: 100},
}

// Labels returns the selectable ranges in display order.
func Labels() []Label {
	return []Label{Range24h, Range1w, Range1M, Range3M, Range1y, RangeAll}
}

// Resolve returns the kline parameters for label. Unknown labels resolve
// like DefaultRange.
func Resolve(label string) Params {
	if p, ok := table[Label(label)]; ok {
		return p
	}
	return table[DefaultRange]
}

// PriceChange is the move between the first and last close of a series.
type PriceChange struct {
	Absolute   float64
	Percentage float64
}

// ComputeChange compares the first and last close of series. Fewer than two
// klines, or a zero first close, yield a zero percentage.
func ComputeChange(series []*domain.Kline) PriceChange {
	if len(series) < 2 {
		return PriceChange{}
	}
	first := series[0].Close
	last := series[len(series)-1].Close
	delta := last - first
	if first == 0 {
		return PriceChange{Absolute: delta}
	}
	return PriceChange{Absolute: delta, Percentage: delta / first * 100}
}

// Point is one plotted sample.
type Point struct {
	Time  time.Time
	Price float64
}

// Points converts a kline series into chart samples: open time against
// close price, oldest first.
func Points(series []*domain.Kline) []Point {
	out := make([]Point, len(series))
	for i, k := range series {
		out[i] = Point{Time: k.OpenTime, Price: k.Close}
	}
	return out
}

// AxisLayout returns the time layout for x-axis labels. Compact layouts
// are for narrow screens.
func AxisLayout(label Label, compact bool) string {
	if !compact {
		return "01/02 15:04"
	}
	if label == Range24h {
		return "15:04"
	}
	return "02/01"
}
