package backtest

import (
	"math"

	"osquant/internal/domain"
	"osquant/internal/strategy"
)

// Annualization constants: calendar scaling for returns, trading-day scaling
// for volatility, and the fixed risk-free rate used by the Sharpe ratio.
const (
	daysPerYear        = 365.0
	tradingDaysPerYear = 252.0
	riskFreeRate       = 0.05
)

// buildResult derives every aggregate metric from the finished trade log and
// equity curve and assembles the immutable result record.
func buildResult(cfg Config, strat strategy.Strategy, prices []float64, finalCash float64, trades []domain.Trade, equity []float64) *domain.BacktestResult {
	initial := cfg.InitialCapital

	res := &domain.BacktestResult{
		Symbol:         cfg.Symbol,
		AssetType:      cfg.AssetType,
		Strategy:       strat.Name(),
		Params:         strat.Params(),
		InitialCapital: initial,
		FinalValue:     finalCash,
		TotalTrades:    len(trades),
		Trades:         trades,
		EquityCurve:    equity,
	}

	res.TotalReturn = finalCash - initial
	res.TotalReturnPercent = res.TotalReturn / initial * 100

	periodDays := cfg.Days
	if periodDays <= 0 {
		periodDays = len(prices)
	}
	res.AnnualizedReturn = annualizedReturn(finalCash, initial, periodDays)
	res.SharpeRatio = sharpeRatio(res.AnnualizedReturn, equity)
	res.MaxDrawdown, res.MaxDrawdownPercent = maxDrawdown(equity)

	fillTradeStats(res, trades)

	res.BuyHoldReturn, res.BuyHoldReturnPercent = buyHoldBaseline(prices, initial, cfg.FeeRate)

	return res
}

// annualizedReturn compounds the run's total growth to a yearly rate, in
// percent, using calendar days.
func annualizedReturn(finalValue, initial float64, periodDays int) float64 {
	if periodDays < 1 {
		periodDays = 1
	}
	exponent := daysPerYear / float64(periodDays)
	return (math.Pow(finalValue/initial, exponent) - 1) * 100
}

// sharpeRatio computes excess annualized return over the risk-free rate per
// unit of annualized volatility of the per-bar equity returns. Returns 0
// when volatility is zero (e.g. a strategy that never trades).
func sharpeRatio(annualizedReturnPct float64, equity []float64) float64 {
	returns := barReturns(equity)
	annualizedStd := sampleStdDev(returns) * math.Sqrt(tradingDaysPerYear)
	if annualizedStd == 0 {
		return 0
	}
	return (annualizedReturnPct/100 - riskFreeRate) / annualizedStd
}

// maxDrawdown tracks the running equity peak and returns the largest
// absolute decline from it, plus that decline as a percentage of the highest
// peak seen over the entire run. Dividing by the global peak rather than the
// peak concurrent with the drawdown can understate severity when the largest
// peak comes later; that is the documented behavior.
func maxDrawdown(equity []float64) (float64, float64) {
	if len(equity) == 0 {
		return 0, 0
	}
	peak := equity[0]
	maxDD := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if dd := peak - e; dd > maxDD {
			maxDD = dd
		}
	}
	pct := 0.0
	if peak > 0 {
		pct = maxDD / peak * 100
	}
	return maxDD, pct
}

// fillTradeStats computes win/loss statistics over the sell trades, which
// are the only trades carrying realized pnl.
func fillTradeStats(res *domain.BacktestResult, trades []domain.Trade) {
	var (
		sells       int
		grossProfit float64
		grossLoss   float64
		best        float64
		worst       float64
	)

	for _, t := range trades {
		if t.Type != domain.TradeSell {
			continue
		}
		sells++
		if t.PnL > 0 {
			res.WinningTrades++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			res.LosingTrades++
			grossLoss += -t.PnL
		}
		if sells == 1 || t.PnL > best {
			best = t.PnL
		}
		if sells == 1 || t.PnL < worst {
			worst = t.PnL
		}
	}

	if sells > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(sells) * 100
		res.BestTrade = best
		res.WorstTrade = worst
	}
	if res.WinningTrades > 0 {
		res.AvgWin = grossProfit / float64(res.WinningTrades)
	}
	if res.LosingTrades > 0 {
		res.AvgLoss = -grossLoss / float64(res.LosingTrades)
	}

	switch {
	case grossLoss > 0:
		res.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		res.ProfitFactor = math.Inf(1)
	default:
		res.ProfitFactor = 0
	}
}

// buyHoldBaseline simulates buying the maximum affordable quantity at the
// first price (net of one fee) and selling everything at the final price
// (net of a second fee).
func buyHoldBaseline(prices []float64, initial, feeRate float64) (float64, float64) {
	first := prices[0]
	last := prices[len(prices)-1]

	qty := initial * (1 - feeRate) / first
	cost := qty * first
	buyFee := cost * feeRate
	cash := initial - cost - buyFee

	revenue := qty * last
	sellFee := revenue * feeRate
	final := cash + revenue - sellFee

	ret := final - initial
	return ret, ret / initial * 100
}

// barReturns converts an equity curve to bar-over-bar relative deltas.
func barReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1]
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i]-prev)/prev)
	}
	return returns
}

// sampleStdDev returns the sample standard deviation (n-1 divisor), or 0
// when fewer than two values exist.
func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}
