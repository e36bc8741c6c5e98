package domain

import "testing"

func TestTypesExist(t *testing.T) {
	// Verify Signal can be instantiated with zero values.
	sig := Signal{}
	if sig.Action != "" {
		t.Error("expected empty Action for zero-value Signal")
	}
	if sig.Quantity != 0 {
		t.Error("expected zero Quantity for zero-value Signal")
	}

	// Verify Trade can be instantiated with zero values.
	trade := Trade{}
	if trade.Type != "" {
		t.Error("expected empty Type for zero-value Trade")
	}
	if trade.Price != 0 || trade.Quantity != 0 || trade.Value != 0 || trade.Fee != 0 {
		t.Error("expected zero accounting fields for zero-value Trade")
	}
	if trade.PnL != 0 || trade.PnLPercent != 0 {
		t.Error("expected zero PnL fields for zero-value Trade")
	}

	// Verify enum constants have the wire values used across the engine.
	if ActionBuy != "buy" || ActionSell != "sell" || ActionHold != "hold" {
		t.Error("SignalAction constants have unexpected values")
	}
	if TradeBuy != "buy" || TradeSell != "sell" {
		t.Error("TradeType constants have unexpected values")
	}
	if PositionLong != "long" || PositionShort != "short" {
		t.Error("PositionSide constants have unexpected values")
	}

	// Verify structs can be constructed with real values.
	pos := Position{
		Side:       PositionLong,
		EntryPrice: 102.5,
		Quantity:   9.7,
		EntryIndex: 4,
	}
	if pos.Side != PositionLong {
		t.Errorf("pos.Side = %q, want %q", pos.Side, PositionLong)
	}

	res := BacktestResult{
		Symbol:         "BTC",
		Strategy:       "sma_crossover",
		Params:         map[string]float64{"short_period": 10, "long_period": 30},
		InitialCapital: 10000,
	}
	if res.Params["long_period"] != 30 {
		t.Errorf("res.Params[long_period] = %v, want 30", res.Params["long_period"])
	}
}
