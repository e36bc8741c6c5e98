package builtins

import (
	"osquant/internal/domain"
	"osquant/internal/indicator"
	"osquant/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*RSI)(nil)

// RSI implements a relative strength index oscillator strategy: buy when the
// oscillator falls below the oversold level, sell when it rises above the
// overbought level.
//
// Parameters: period (default 14), oversold (default 30), overbought
// (default 70).
type RSI struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSI creates an RSI strategy, filling missing parameters with their
// defaults.
func NewRSI(params strategy.Params) *RSI {
	return &RSI{
		period:     int(params.Get("period", 14)),
		oversold:   params.Get("oversold", 30),
		overbought: params.Get("overbought", 70),
	}
}

// Name returns "rsi".
func (s *RSI) Name() string {
	return "rsi"
}

// Params returns the effective parameter set.
func (s *RSI) Params() strategy.Params {
	return strategy.Params{
		"period":     float64(s.period),
		"oversold":   s.oversold,
		"overbought": s.overbought,
	}
}

// Evaluate holds until period bars of history exist, then trades the
// oversold/overbought thresholds.
func (s *RSI) Evaluate(prices []float64, index int, pos *domain.Position) domain.Signal {
	if index < s.period {
		return domain.Signal{Action: domain.ActionHold}
	}

	rsi := indicator.RSI(prices, s.period, index)
	if rsi < s.oversold && pos == nil {
		return domain.Signal{Action: domain.ActionBuy, Reason: "rsi oversold"}
	}
	if rsi > s.overbought && pos != nil {
		return domain.Signal{Action: domain.ActionSell, Reason: "rsi overbought"}
	}
	return domain.Signal{Action: domain.ActionHold}
}
