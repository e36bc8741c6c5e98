package builtins

import (
	"osquant/internal/domain"
	"osquant/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*Momentum)(nil)

// Momentum implements a rate-of-change strategy: buy when the period
// rate of change exceeds the threshold, sell when it drops below the
// negated threshold.
//
// Parameters: period (default 10), threshold (default 0.02).
type Momentum struct {
	period    int
	threshold float64
}

// NewMomentum creates a Momentum strategy, filling missing parameters with
// their defaults.
func NewMomentum(params strategy.Params) *Momentum {
	return &Momentum{
		period:    int(params.Get("period", 10)),
		threshold: params.Get("threshold", 0.02),
	}
}

// Name returns "momentum".
func (s *Momentum) Name() string {
	return "momentum"
}

// Params returns the effective parameter set.
func (s *Momentum) Params() strategy.Params {
	return strategy.Params{
		"period":    float64(s.period),
		"threshold": s.threshold,
	}
}

// Evaluate holds until period bars of history exist, then trades the rate of
// change (p[i] - p[i-period]) / p[i-period] against the threshold.
func (s *Momentum) Evaluate(prices []float64, index int, pos *domain.Position) domain.Signal {
	if index < s.period {
		return domain.Signal{Action: domain.ActionHold}
	}

	base := prices[index-s.period]
	roc := (prices[index] - base) / base
	if roc > s.threshold && pos == nil {
		return domain.Signal{Action: domain.ActionBuy, Reason: "momentum up"}
	}
	if roc < -s.threshold && pos != nil {
		return domain.Signal{Action: domain.ActionSell, Reason: "momentum down"}
	}
	return domain.Signal{Action: domain.ActionHold}
}
