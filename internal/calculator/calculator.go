package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for inputs no projection can be made from.
var ErrInvalidInput = errors.New("invalid calculator input")

// TargetType selects how Input.TargetValue is read.
type TargetType string

const (
	TargetPercentage TargetType = "percentage" // TargetValue is a % move from entry
	TargetPrice      TargetType = "price"      // TargetValue is the exit price
)

// Input describes a hypothetical spot position.
type Input struct {
	Investment  decimal.Decimal // Quote currency spent
	EntryPrice  decimal.Decimal
	TargetType  TargetType
	TargetValue decimal.Decimal
}

// Result is the projected outcome of closing at the target price.
type Result struct {
	Coins            decimal.Decimal // Base units bought
	TargetPrice      decimal.Decimal
	Profit           decimal.Decimal // Negative for a loss
	ProfitPercentage decimal.Decimal // Relative to Investment
	Total            decimal.Decimal // Investment + Profit
}

var hundred = decimal.NewFromInt(100)

// Calculate projects the profit of buying at EntryPrice and selling at the
// target.
func Calculate(in Input) (Result, error) {
	if !in.Investment.IsPositive() {
		return Result{}, fmt.Errorf("%w: investment must be positive", ErrInvalidInput)
	}
	if !in.EntryPrice.IsPositive() {
		return Result{}, fmt.Errorf("%w: entry price must be positive", ErrInvalidInput)
	}

	var target decimal.Decimal
	switch in.TargetType {
	case TargetPercentage:
		target = in.EntryPrice.Mul(decimal.NewFromInt(1).Add(in.TargetValue.Div(hundred)))
	case TargetPrice:
		target = in.TargetValue
	default:
		return Result{}, fmt.Errorf("%w: unknown target type %q", ErrInvalidInput, in.TargetType)
	}
	if target.IsNegative() || (in.TargetType == TargetPrice && target.IsZero()) {
		return Result{}, fmt.Errorf("%w: target price must be positive", ErrInvalidInput)
	}

	coins := in.Investment.Div(in.EntryPrice)
	profit := target.Sub(in.EntryPrice).Mul(coins)

	return Result{
		Coins:            coins,
		TargetPrice:      target,
		Profit:           profit,
		ProfitPercentage: profit.Div(in.Investment).Mul(hundred),
		Total:            in.Investment.Add(profit),
	}, nil
}
