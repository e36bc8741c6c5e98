// Package report renders backtest results and strategy comparisons as
// plain text for the CLI.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"osquant/internal/backtest"
	"osquant/internal/domain"
	"osquant/internal/store"
)

// FormatMoney formats a dollar amount with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent formats a percentage with a sign for positive values.
func FormatPercent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatRatio formats a ratio metric, rendering +Inf as "inf".
func FormatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// Result renders a single backtest result as a multi-line summary.
func Result(res *domain.BacktestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Backtest: %s on %s\n", res.Strategy, res.Symbol)
	if len(res.Params) > 0 {
		fmt.Fprintf(&b, "Params:   %s\n", formatParams(res.Params))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Initial capital    %s\n", FormatMoney(res.InitialCapital))
	fmt.Fprintf(&b, "  Final value        %s\n", FormatMoney(res.FinalValue))
	fmt.Fprintf(&b, "  Total return       %s (%s)\n", FormatMoney(res.TotalReturn), FormatPercent(res.TotalReturnPercent))
	fmt.Fprintf(&b, "  Annualized return  %s\n", FormatPercent(res.AnnualizedReturn))
	fmt.Fprintf(&b, "  Buy & hold return  %s (%s)\n", FormatMoney(res.BuyHoldReturn), FormatPercent(res.BuyHoldReturnPercent))
	fmt.Fprintf(&b, "  Sharpe ratio       %s\n", FormatRatio(res.SharpeRatio))
	fmt.Fprintf(&b, "  Max drawdown       %s (%.2f%%)\n", FormatMoney(res.MaxDrawdown), res.MaxDrawdownPercent)
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Trades             %d (%d wins, %d losses)\n", res.TotalTrades, res.WinningTrades, res.LosingTrades)
	fmt.Fprintf(&b, "  Win rate           %.2f%%\n", res.WinRate)
	fmt.Fprintf(&b, "  Profit factor      %s\n", FormatRatio(res.ProfitFactor))
	fmt.Fprintf(&b, "  Avg win / loss     %s / %s\n", FormatMoney(res.AvgWin), FormatMoney(res.AvgLoss))
	fmt.Fprintf(&b, "  Best / worst       %s / %s\n", FormatMoney(res.BestTrade), FormatMoney(res.WorstTrade))

	return b.String()
}

// Trades renders a result's trade list, one line per fill.
func Trades(trades []domain.Trade) string {
	if len(trades) == 0 {
		return "no trades\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-5s %10s %12s %12s %10s  %s\n",
		"bar", "side", "price", "qty", "value", "pnl", "reason")
	for _, t := range trades {
		pnl := ""
		if t.Type == domain.TradeSell {
			pnl = FormatMoney(t.PnL)
		}
		fmt.Fprintf(&b, "%-4d %-5s %10.2f %12.4f %12.2f %10s  %s\n",
			t.Index, t.Type, t.Price, t.Quantity, t.Value, pnl, t.Reason)
	}
	return b.String()
}

// Ranking renders a comparison's ranking table, best strategy first.
func Ranking(cmp *backtest.Comparison) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Strategy comparison: %s\n\n", cmp.Symbol)
	fmt.Fprintf(&b, "%-4s %-20s %10s %12s %10s %8s\n",
		"rank", "strategy", "sharpe", "return", "drawdown", "trades")
	for _, e := range cmp.Ranking {
		res := resultFor(cmp, e.Strategy)
		fmt.Fprintf(&b, "%-4d %-20s %10.2f %11.2f%% %9.2f%% %8d\n",
			e.Rank, e.Strategy, e.SharpeRatio, e.TotalReturnPercent,
			res.MaxDrawdownPercent, res.TotalTrades)
	}
	return b.String()
}

// Summaries renders stored result summaries, newest first.
func Summaries(rows []store.ResultSummary) string {
	if len(rows) == 0 {
		return "no saved results\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %-8s %-20s %10s %8s %8s  %s\n",
		"id", "symbol", "strategy", "return", "sharpe", "trades", "created")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-36s %-8s %-20s %9.2f%% %8.2f %8d  %s\n",
			r.ID, r.Symbol, r.Strategy, r.TotalReturnPercent, r.SharpeRatio,
			r.TotalTrades, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// formatParams renders strategy params as "key=value" pairs in sorted order.
func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, " ")
}

func resultFor(cmp *backtest.Comparison, strategy string) *domain.BacktestResult {
	for _, res := range cmp.Results {
		if res.Strategy == strategy {
			return res
		}
	}
	return &domain.BacktestResult{}
}
