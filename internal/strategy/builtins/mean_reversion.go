package builtins

import (
	"osquant/internal/domain"
	"osquant/internal/indicator"
	"osquant/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*MeanReversion)(nil)

// MeanReversion implements a Bollinger-band style strategy: buy when price
// falls below the lower band (SMA - multiplier * population std dev), sell
// when price rises above the upper band.
//
// Parameters: period (default 20), std_dev_multiplier (default 2).
type MeanReversion struct {
	period     int
	multiplier float64
}

// NewMeanReversion creates a MeanReversion strategy, filling missing
// parameters with their defaults.
func NewMeanReversion(params strategy.Params) *MeanReversion {
	return &MeanReversion{
		period:     int(params.Get("period", 20)),
		multiplier: params.Get("std_dev_multiplier", 2),
	}
}

// Name returns "mean_reversion".
func (s *MeanReversion) Name() string {
	return "mean_reversion"
}

// Params returns the effective parameter set.
func (s *MeanReversion) Params() strategy.Params {
	return strategy.Params{
		"period":             float64(s.period),
		"std_dev_multiplier": s.multiplier,
	}
}

// Evaluate holds until period bars of history exist, then trades price
// excursions beyond the bands.
func (s *MeanReversion) Evaluate(prices []float64, index int, pos *domain.Position) domain.Signal {
	if index < s.period {
		return domain.Signal{Action: domain.ActionHold}
	}

	mid := indicator.SMA(prices, s.period, index)
	band := s.multiplier * indicator.StdDev(prices, s.period, index)
	price := prices[index]

	if price < mid-band && pos == nil {
		return domain.Signal{Action: domain.ActionBuy, Reason: "below lower band"}
	}
	if price > mid+band && pos != nil {
		return domain.Signal{Action: domain.ActionSell, Reason: "above upper band"}
	}
	return domain.Signal{Action: domain.ActionHold}
}
