package backtest

import (
	"sort"

	"osquant/internal/domain"
	"osquant/internal/strategy"
)

// Comparison holds the outcome of running several strategies over the same
// price series. Results preserves the order the strategies were requested
// in; only Ranking is sorted.
type Comparison struct {
	Symbol  string
	Results []*domain.BacktestResult
	Ranking []RankEntry
}

// RankEntry is one row of the ranking, best Sharpe first.
type RankEntry struct {
	Rank               int
	Strategy           string
	SharpeRatio        float64
	TotalReturnPercent float64
}

// Compare runs the single-strategy path once per requested name,
// sequentially and each with a fresh strategy instance, then ranks the
// results by Sharpe ratio descending. Equal Sharpe ratios keep their
// request order.
func Compare(reg *strategy.Registry, prices []float64, names []string, cfg Config) (*Comparison, error) {
	results := make([]*domain.BacktestResult, 0, len(names))
	for _, name := range names {
		runCfg := cfg
		runCfg.Strategy = name
		res, err := RunStrategy(reg, prices, runCfg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].SharpeRatio > results[order[b]].SharpeRatio
	})

	ranking := make([]RankEntry, len(order))
	for rank, idx := range order {
		ranking[rank] = RankEntry{
			Rank:               rank + 1,
			Strategy:           results[idx].Strategy,
			SharpeRatio:        results[idx].SharpeRatio,
			TotalReturnPercent: results[idx].TotalReturnPercent,
		}
	}

	return &Comparison{
		Symbol:  cfg.Symbol,
		Results: results,
		Ranking: ranking,
	}, nil
}
