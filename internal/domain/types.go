// Package domain defines the core value types shared across the backtest
// engine: signals, trades, positions, and the aggregate backtest result.
package domain

// SignalAction is the per-bar decision emitted by a strategy.
type SignalAction string

// Signal actions.
const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
	ActionHold SignalAction = "hold"
)

// Signal is a strategy's decision for a single bar. Quantity is optional;
// zero means the engine chooses the default (all-in) sizing. Reason is an
// optional human-readable explanation carried onto the executed trade.
type Signal struct {
	Action   SignalAction
	Quantity float64
	Reason   string
}

// TradeType identifies the direction of an executed trade.
type TradeType string

// Trade types.
const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Trade is an immutable record of one executed buy or sell. PnL and
// PnLPercent are populated on sells only, relative to the cost basis of the
// position being closed. Trades are appended to an ordered log and never
// mutated afterwards.
type Trade struct {
	Type     TradeType
	Price    float64
	Quantity float64
	Value    float64 // gross value: Quantity * Price
	Fee      float64
	Index    int // bar index at which the trade executed
	Reason   string

	// Sell-side accounting.
	PnL        float64
	PnLPercent float64
}

// PositionSide tags the direction of an open position. Built-in strategies
// only ever go long, but the side is part of the model.
type PositionSide string

// Position sides.
const (
	PositionLong  PositionSide = "long"
	PositionShort PositionSide = "short"
)

// Position is the single open position owned by the simulation loop for the
// duration of one run. At most one position is open at any simulated time.
type Position struct {
	Side       PositionSide
	EntryPrice float64
	Quantity   float64
	EntryIndex int
}

// BacktestResult is the self-contained output of one backtest run: run
// identifiers, capital figures, every derived metric, the full trade log,
// and the per-bar equity curve. It is immutable once returned.
type BacktestResult struct {
	Symbol    string
	AssetType string
	Strategy  string
	Params    map[string]float64

	InitialCapital float64
	FinalValue     float64

	TotalReturn        float64
	TotalReturnPercent float64
	AnnualizedReturn   float64
	SharpeRatio        float64
	MaxDrawdown        float64
	MaxDrawdownPercent float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	ProfitFactor  float64
	AvgWin        float64
	AvgLoss       float64
	BestTrade     float64
	WorstTrade    float64

	BuyHoldReturn        float64
	BuyHoldReturnPercent float64

	Trades      []Trade
	EquityCurve []float64
}
