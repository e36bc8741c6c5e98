package backtest

import (
	"errors"
	"math"
	"testing"

	"osquant/internal/strategy"
	"osquant/internal/strategy/builtins"
)

func TestCompareRanksBySharpe(t *testing.T) {
	// 90-bar series with enough movement for both strategies to have
	// defined metrics.
	prices := make([]float64, 90)
	for i := range prices {
		prices[i] = 100 + 20*math.Sin(float64(i)/5) + float64(i)*0.3
	}
	reg := builtins.NewRegistry()
	cfg := DefaultConfig()
	cfg.Symbol = "ETH"

	cmp, err := Compare(reg, prices, []string{"sma_crossover", "rsi"}, cfg)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}

	if len(cmp.Results) != 2 || len(cmp.Ranking) != 2 {
		t.Fatalf("got %d results / %d ranked, want 2/2", len(cmp.Results), len(cmp.Ranking))
	}

	// Results preserve request order; only the ranking is sorted.
	if cmp.Results[0].Strategy != "sma_crossover" || cmp.Results[1].Strategy != "rsi" {
		t.Errorf("results order = [%s %s], want request order",
			cmp.Results[0].Strategy, cmp.Results[1].Strategy)
	}

	// Ranking is descending by Sharpe with 1-based ranks.
	if cmp.Ranking[0].SharpeRatio < cmp.Ranking[1].SharpeRatio {
		t.Errorf("ranking not descending: %v then %v",
			cmp.Ranking[0].SharpeRatio, cmp.Ranking[1].SharpeRatio)
	}
	if cmp.Ranking[0].Rank != 1 || cmp.Ranking[1].Rank != 2 {
		t.Errorf("ranks = %d/%d, want 1/2", cmp.Ranking[0].Rank, cmp.Ranking[1].Rank)
	}
}

func TestCompareTieBreakKeepsRequestOrder(t *testing.T) {
	// On a constant series no builtin ever trades, so every Sharpe ratio is
	// the 0 sentinel; ties resolve to request order.
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 250
	}
	reg := builtins.NewRegistry()

	cmp, err := Compare(reg, prices, []string{"momentum", "rsi", "mean_reversion"}, DefaultConfig())
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}

	want := []string{"momentum", "rsi", "mean_reversion"}
	for i, entry := range cmp.Ranking {
		if entry.SharpeRatio != 0 {
			t.Errorf("ranking[%d].SharpeRatio = %v, want 0", i, entry.SharpeRatio)
		}
		if entry.Strategy != want[i] {
			t.Errorf("ranking[%d] = %s, want %s (request order on ties)", i, entry.Strategy, want[i])
		}
	}
}

func TestCompareUnknownStrategy(t *testing.T) {
	reg := builtins.NewRegistry()
	_, err := Compare(reg, []float64{100, 101, 102}, []string{"rsi", "nope"}, DefaultConfig())

	var unknown *strategy.UnknownStrategyError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *strategy.UnknownStrategyError", err)
	}
}
