// Package backtest replays a chronological price series through a trading
// strategy bar by bar, executes simulated trades against a cash ledger, and
// derives a full performance report. The engine is pure computation over the
// in-memory series: it performs no I/O and never blocks, so independent runs
// are safe to execute concurrently as long as each gets its own strategy
// instance.
package backtest

import (
	"errors"

	"osquant/internal/domain"
	"osquant/internal/strategy"
)

// Engine errors. Numerically degenerate situations (zero volatility, no sell
// trades, empty drawdown) are not errors; they produce the documented
// sentinel metric values instead.
var (
	// ErrMissingPrices means no price array was supplied. The engine does not
	// fetch data itself.
	ErrMissingPrices = errors.New("no price data supplied")

	// ErrInsufficientData means fewer than 2 price points were supplied.
	ErrInsufficientData = errors.New("at least 2 price points are required")
)

// Reason tag for the forced end-of-run liquidation trade.
const liquidationReason = "end of backtest"

// Config carries the per-run settings for one backtest.
type Config struct {
	// Symbol labels the run; opaque to the engine.
	Symbol string
	// AssetType tags the instrument class; opaque to the engine.
	AssetType string
	// Strategy is the registry key resolved by RunStrategy and Compare.
	Strategy string
	// Days is the calendar length of the series, used for annualization.
	// Zero means one day per bar.
	Days int
	// InitialCapital is the starting cash. Zero or negative falls back to
	// the 10,000 default.
	InitialCapital float64
	// FeeRate is the flat fee charged on each trade's gross value. Zero is a
	// valid (free) rate.
	FeeRate float64
	// Params overrides the strategy's default parameters.
	Params strategy.Params
}

// DefaultConfig returns a Config with the standard capital and fee defaults.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 10000,
		FeeRate:        0.001,
	}
}

// Run replays prices through strat and returns the completed result. The
// ledger starts at cfg.InitialCapital; any position still open after the
// last bar is force-closed at the final price so every run's realized return
// is fully comparable.
func Run(prices []float64, strat strategy.Strategy, cfg Config) (*domain.BacktestResult, error) {
	if len(prices) == 0 {
		return nil, ErrMissingPrices
	}
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = DefaultConfig().InitialCapital
	}

	if init, ok := strat.(strategy.Initializer); ok {
		init.Init(prices)
	}

	cash := cfg.InitialCapital
	var pos *domain.Position
	trades := make([]domain.Trade, 0)
	equity := make([]float64, 0, len(prices))

	for i, price := range prices {
		// Mark to market before the bar's signal is evaluated.
		if pos != nil {
			equity = append(equity, cash+pos.Quantity*price)
		} else {
			equity = append(equity, cash)
		}

		sig := strat.Evaluate(prices, i, pos)
		switch sig.Action {
		case domain.ActionBuy:
			// Hard invariant: never open a second position, whatever a
			// custom strategy emits.
			if pos != nil {
				continue
			}
			// Default sizing spends all available cash net of fee. Deriving
			// the quantity from the cost (rather than recomputing
			// quantity*price) keeps cost+fee from overshooting cash by a
			// rounding ulp at zero fee.
			qty, cost := sig.Quantity, 0.0
			if qty > 0 {
				cost = qty * price
			} else {
				cost = cash * (1 - cfg.FeeRate)
				qty = cost / price
			}
			fee := cost * cfg.FeeRate
			// Guards against rounding overshoot on caller-sized buys.
			if qty <= 0 || cost+fee > cash {
				continue
			}
			cash -= cost + fee
			pos = &domain.Position{
				Side:       domain.PositionLong,
				EntryPrice: price,
				Quantity:   qty,
				EntryIndex: i,
			}
			trades = append(trades, domain.Trade{
				Type:     domain.TradeBuy,
				Price:    price,
				Quantity: qty,
				Value:    cost,
				Fee:      fee,
				Index:    i,
				Reason:   sig.Reason,
			})

		case domain.ActionSell:
			// Hard invariant: never sell while flat.
			if pos == nil {
				continue
			}
			var trade domain.Trade
			cash, trade = closePosition(cash, pos, price, i, cfg.FeeRate, sig.Reason)
			trades = append(trades, trade)
			pos = nil
		}
	}

	// Force-close any residual position at the final bar's price.
	if pos != nil {
		last := len(prices) - 1
		var trade domain.Trade
		cash, trade = closePosition(cash, pos, prices[last], last, cfg.FeeRate, liquidationReason)
		trades = append(trades, trade)
		pos = nil
	}

	return buildResult(cfg, strat, prices, cash, trades, equity), nil
}

// RunStrategy resolves cfg.Strategy in the registry (applying cfg.Params as
// overrides) and runs a backtest with a fresh instance.
func RunStrategy(reg *strategy.Registry, prices []float64, cfg Config) (*domain.BacktestResult, error) {
	strat, err := reg.New(cfg.Strategy, cfg.Params)
	if err != nil {
		return nil, err
	}
	return Run(prices, strat, cfg)
}

// closePosition sells the entire position at price and returns the updated
// cash plus the recorded sell trade. PnL is measured against the position's
// cost basis, net of the sell-side fee.
func closePosition(cash float64, pos *domain.Position, price float64, index int, feeRate float64, reason string) (float64, domain.Trade) {
	revenue := pos.Quantity * price
	fee := revenue * feeRate
	costBasis := pos.EntryPrice * pos.Quantity
	pnl := revenue - fee - costBasis

	pnlPercent := 0.0
	if costBasis != 0 {
		pnlPercent = pnl / costBasis * 100
	}

	trade := domain.Trade{
		Type:       domain.TradeSell,
		Price:      price,
		Quantity:   pos.Quantity,
		Value:      revenue,
		Fee:        fee,
		Index:      index,
		Reason:     reason,
		PnL:        pnl,
		PnLPercent: pnlPercent,
	}
	return cash + revenue - fee, trade
}
