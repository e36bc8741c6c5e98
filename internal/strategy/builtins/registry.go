package builtins

import "osquant/internal/strategy"

// NewRegistry builds the read-only lookup table of built-in strategies.
// Construct it once at startup; callers may Register additional custom
// strategies before first use.
func NewRegistry() *strategy.Registry {
	r := strategy.NewRegistry()
	r.Register("sma_crossover", func(p strategy.Params) strategy.Strategy { return NewSMACross(p) })
	r.Register("rsi", func(p strategy.Params) strategy.Strategy { return NewRSI(p) })
	r.Register("momentum", func(p strategy.Params) strategy.Strategy { return NewMomentum(p) })
	r.Register("mean_reversion", func(p strategy.Params) strategy.Strategy { return NewMeanReversion(p) })
	return r
}
