package builtins

import (
	"testing"

	"osquant/internal/domain"
	"osquant/internal/strategy"
)

var openPos = &domain.Position{
	Side:       domain.PositionLong,
	EntryPrice: 100,
	Quantity:   1,
	EntryIndex: 0,
}

func TestHoldUntilReady(t *testing.T) {
	// Every builtin must hold for all indices before its minimum lookback.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	cases := []struct {
		strat    strategy.Strategy
		lookback int
	}{
		{NewSMACross(nil), 30},
		{NewRSI(nil), 14},
		{NewMomentum(nil), 10},
		{NewMeanReversion(nil), 20},
	}
	for _, tc := range cases {
		for i := 0; i < tc.lookback; i++ {
			sig := tc.strat.Evaluate(prices, i, nil)
			if sig.Action != domain.ActionHold {
				t.Errorf("%s at index %d = %q, want hold", tc.strat.Name(), i, sig.Action)
			}
		}
	}
}

func TestSMACrossSignals(t *testing.T) {
	s := NewSMACross(strategy.Params{"short_period": 2, "long_period": 3})
	prices := []float64{100, 102, 104, 90, 95, 110}

	// Index 3 is a downward cross: sell when positioned, hold when flat.
	if sig := s.Evaluate(prices, 3, openPos); sig.Action != domain.ActionSell {
		t.Errorf("downward cross with position = %q, want sell", sig.Action)
	}
	if sig := s.Evaluate(prices, 3, nil); sig.Action != domain.ActionHold {
		t.Errorf("downward cross while flat = %q, want hold", sig.Action)
	}

	// Index 5 is an upward cross: buy when flat, hold when positioned.
	if sig := s.Evaluate(prices, 5, nil); sig.Action != domain.ActionBuy {
		t.Errorf("upward cross while flat = %q, want buy", sig.Action)
	}
	if sig := s.Evaluate(prices, 5, openPos); sig.Action != domain.ActionHold {
		t.Errorf("upward cross with position = %q, want hold", sig.Action)
	}

	// No cross at index 4.
	if sig := s.Evaluate(prices, 4, nil); sig.Action != domain.ActionHold {
		t.Errorf("no cross = %q, want hold", sig.Action)
	}
}

func TestRSISignals(t *testing.T) {
	s := NewRSI(nil)

	// Monotonically rising series saturates RSI at 100: never a buy, and a
	// sell once positioned.
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	for i := 14; i < len(rising); i++ {
		if sig := s.Evaluate(rising, i, nil); sig.Action != domain.ActionHold {
			t.Errorf("rising series at %d while flat = %q, want hold", i, sig.Action)
		}
	}
	if sig := s.Evaluate(rising, 19, openPos); sig.Action != domain.ActionSell {
		t.Errorf("rising series with position = %q, want sell", sig.Action)
	}

	// Monotonically falling series pins RSI at 0: buy when flat.
	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = 100 - float64(i)
	}
	if sig := s.Evaluate(falling, 19, nil); sig.Action != domain.ActionBuy {
		t.Errorf("falling series while flat = %q, want buy", sig.Action)
	}
}

func TestMomentumSignals(t *testing.T) {
	s := NewMomentum(strategy.Params{"period": 2, "threshold": 0.02})

	up := []float64{100, 100, 103} // ROC = 3% > threshold
	if sig := s.Evaluate(up, 2, nil); sig.Action != domain.ActionBuy {
		t.Errorf("ROC above threshold while flat = %q, want buy", sig.Action)
	}
	if sig := s.Evaluate(up, 2, openPos); sig.Action != domain.ActionHold {
		t.Errorf("ROC above threshold with position = %q, want hold", sig.Action)
	}

	down := []float64{103, 103, 100} // ROC = -2.9% < -threshold
	if sig := s.Evaluate(down, 2, openPos); sig.Action != domain.ActionSell {
		t.Errorf("ROC below -threshold with position = %q, want sell", sig.Action)
	}
	if sig := s.Evaluate(down, 2, nil); sig.Action != domain.ActionHold {
		t.Errorf("ROC below -threshold while flat = %q, want hold", sig.Action)
	}

	flat := []float64{100, 100, 101} // ROC = 1%, inside the band
	if sig := s.Evaluate(flat, 2, nil); sig.Action != domain.ActionHold {
		t.Errorf("ROC inside band = %q, want hold", sig.Action)
	}
}

func TestMeanReversionSignals(t *testing.T) {
	s := NewMeanReversion(strategy.Params{"period": 3, "std_dev_multiplier": 1})

	// Window [100,100,89]: mean 96.33, std dev 5.19, lower band 91.15.
	below := []float64{100, 100, 100, 89}
	if sig := s.Evaluate(below, 3, nil); sig.Action != domain.ActionBuy {
		t.Errorf("price below lower band while flat = %q, want buy", sig.Action)
	}

	// Window [100,100,111]: mean 103.67, upper band 108.85.
	above := []float64{100, 100, 100, 111}
	if sig := s.Evaluate(above, 3, openPos); sig.Action != domain.ActionSell {
		t.Errorf("price above upper band with position = %q, want sell", sig.Action)
	}

	// With the default 2x multiplier the same dip stays inside the bands.
	d := NewMeanReversion(strategy.Params{"period": 3})
	if sig := d.Evaluate(below, 3, nil); sig.Action != domain.ActionHold {
		t.Errorf("price inside default bands = %q, want hold", sig.Action)
	}
}

func TestNewRegistryContainsBuiltins(t *testing.T) {
	r := NewRegistry()

	want := []string{"mean_reversion", "momentum", "rsi", "sma_crossover"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List returned %v, want %v", got, want)
		}
	}

	// Each factory yields a fresh instance with overrides applied.
	s1, err := r.New("sma_crossover", strategy.Params{"short_period": 5})
	if err != nil {
		t.Fatalf("New(sma_crossover) error: %v", err)
	}
	s2, err := r.New("sma_crossover", nil)
	if err != nil {
		t.Fatalf("New(sma_crossover) error: %v", err)
	}
	if s1 == s2 {
		t.Error("registry returned a shared strategy instance")
	}
	if s1.Params().Get("short_period", 0) != 5 {
		t.Errorf("override not applied: %v", s1.Params())
	}
	if s2.Params().Get("short_period", 0) != 10 {
		t.Errorf("default not applied: %v", s2.Params())
	}
}
