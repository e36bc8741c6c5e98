// Package builtins provides the built-in strategy implementations that ship
// with the engine, plus a ready-made registry containing all of them.
package builtins

import (
	"osquant/internal/domain"
	"osquant/internal/indicator"
	"osquant/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*SMACross)(nil)

// SMACross implements a simple moving average crossover strategy. It buys
// when the short-period SMA crosses above the long-period SMA and sells on
// the mirror-image downward cross.
//
// Parameters: short_period (default 10), long_period (default 30).
type SMACross struct {
	params strategy.Params
	short  int
	long   int
}

// NewSMACross creates an SMACross strategy, filling missing parameters with
// their defaults.
func NewSMACross(params strategy.Params) *SMACross {
	return &SMACross{
		params: params,
		short:  int(params.Get("short_period", 10)),
		long:   int(params.Get("long_period", 30)),
	}
}

// Name returns "sma_crossover".
func (s *SMACross) Name() string {
	return "sma_crossover"
}

// Params returns the effective parameter set.
func (s *SMACross) Params() strategy.Params {
	return strategy.Params{
		"short_period": float64(s.short),
		"long_period":  float64(s.long),
	}
}

// Evaluate holds until long_period bars of history exist, then compares the
// short and long SMAs at index and index-1 to detect a cross.
func (s *SMACross) Evaluate(prices []float64, index int, pos *domain.Position) domain.Signal {
	if index < s.long {
		return domain.Signal{Action: domain.ActionHold}
	}

	shortNow := indicator.SMA(prices, s.short, index)
	longNow := indicator.SMA(prices, s.long, index)
	shortPrev := indicator.SMA(prices, s.short, index-1)
	longPrev := indicator.SMA(prices, s.long, index-1)

	// Upward cross: short was at or below long, now strictly above.
	if shortPrev <= longPrev && shortNow > longNow && pos == nil {
		return domain.Signal{Action: domain.ActionBuy, Reason: "golden cross"}
	}
	// Downward cross closes the position.
	if shortPrev >= longPrev && shortNow < longNow && pos != nil {
		return domain.Signal{Action: domain.ActionSell, Reason: "death cross"}
	}
	return domain.Signal{Action: domain.ActionHold}
}
