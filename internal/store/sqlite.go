package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"osquant/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ResultStore = (*SQLiteStore)(nil)

// SQLiteStore implements ResultStore backed by a SQLite database. Result
// rows get a store-assigned UUID so the engine's own output stays fully
// deterministic.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs the
// schema migration, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS results (
	id                   TEXT PRIMARY KEY,
	symbol               TEXT NOT NULL,
	asset_type           TEXT NOT NULL,
	strategy             TEXT NOT NULL,
	params               TEXT NOT NULL,
	initial_capital      REAL NOT NULL,
	final_value          REAL NOT NULL,
	total_return         REAL NOT NULL,
	total_return_pct     REAL NOT NULL,
	annualized_return    REAL NOT NULL,
	sharpe_ratio         REAL NOT NULL,
	max_drawdown         REAL NOT NULL,
	max_drawdown_pct     REAL NOT NULL,
	total_trades         INTEGER NOT NULL,
	winning_trades       INTEGER NOT NULL,
	losing_trades        INTEGER NOT NULL,
	win_rate             REAL NOT NULL,
	profit_factor        REAL NOT NULL,
	avg_win              REAL NOT NULL,
	avg_loss             REAL NOT NULL,
	best_trade           REAL NOT NULL,
	worst_trade          REAL NOT NULL,
	buy_hold_return      REAL NOT NULL,
	buy_hold_return_pct  REAL NOT NULL,
	equity_curve         TEXT NOT NULL,
	created_at           TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	result_id   TEXT NOT NULL REFERENCES results(id),
	seq         INTEGER NOT NULL,
	type        TEXT NOT NULL,
	price       REAL NOT NULL,
	quantity    REAL NOT NULL,
	value       REAL NOT NULL,
	fee         REAL NOT NULL,
	bar_index   INTEGER NOT NULL,
	reason      TEXT NOT NULL,
	pnl         REAL NOT NULL,
	pnl_pct     REAL NOT NULL,
	PRIMARY KEY (result_id, seq)
);
`
	_, err := s.db.Exec(schema)
	return err
}

// SaveResult inserts the result row and its trade log in one transaction and
// returns the assigned ID.
func (s *SQLiteStore) SaveResult(ctx context.Context, res *domain.BacktestResult) (string, error) {
	params, err := json.Marshal(res.Params)
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}
	curve, err := json.Marshal(res.EquityCurve)
	if err != nil {
		return "", fmt.Errorf("encoding equity curve: %w", err)
	}

	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO results (
	id, symbol, asset_type, strategy, params,
	initial_capital, final_value,
	total_return, total_return_pct, annualized_return, sharpe_ratio,
	max_drawdown, max_drawdown_pct,
	total_trades, winning_trades, losing_trades, win_rate, profit_factor,
	avg_win, avg_loss, best_trade, worst_trade,
	buy_hold_return, buy_hold_return_pct, equity_curve, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Symbol, res.AssetType, res.Strategy, string(params),
		res.InitialCapital, res.FinalValue,
		res.TotalReturn, res.TotalReturnPercent, res.AnnualizedReturn, res.SharpeRatio,
		res.MaxDrawdown, res.MaxDrawdownPercent,
		res.TotalTrades, res.WinningTrades, res.LosingTrades, res.WinRate, res.ProfitFactor,
		res.AvgWin, res.AvgLoss, res.BestTrade, res.WorstTrade,
		res.BuyHoldReturn, res.BuyHoldReturnPercent, string(curve), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting result: %w", err)
	}

	for i, t := range res.Trades {
		_, err = tx.ExecContext(ctx, `
INSERT INTO trades (result_id, seq, type, price, quantity, value, fee, bar_index, reason, pnl, pnl_pct)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, string(t.Type), t.Price, t.Quantity, t.Value, t.Fee, t.Index, t.Reason, t.PnL, t.PnLPercent,
		)
		if err != nil {
			return "", fmt.Errorf("inserting trade %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetResult retrieves a stored result by ID, including its trade log and
// equity curve.
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*domain.BacktestResult, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT symbol, asset_type, strategy, params,
	initial_capital, final_value,
	total_return, total_return_pct, annualized_return, sharpe_ratio,
	max_drawdown, max_drawdown_pct,
	total_trades, winning_trades, losing_trades, win_rate, profit_factor,
	avg_win, avg_loss, best_trade, worst_trade,
	buy_hold_return, buy_hold_return_pct, equity_curve
FROM results WHERE id = ?`, id)

	var (
		res        domain.BacktestResult
		paramsJSON string
		curveJSON  string
	)
	err := row.Scan(
		&res.Symbol, &res.AssetType, &res.Strategy, &paramsJSON,
		&res.InitialCapital, &res.FinalValue,
		&res.TotalReturn, &res.TotalReturnPercent, &res.AnnualizedReturn, &res.SharpeRatio,
		&res.MaxDrawdown, &res.MaxDrawdownPercent,
		&res.TotalTrades, &res.WinningTrades, &res.LosingTrades, &res.WinRate, &res.ProfitFactor,
		&res.AvgWin, &res.AvgLoss, &res.BestTrade, &res.WorstTrade,
		&res.BuyHoldReturn, &res.BuyHoldReturnPercent, &curveJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("loading result %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(paramsJSON), &res.Params); err != nil {
		return nil, fmt.Errorf("decoding params: %w", err)
	}
	if err := json.Unmarshal([]byte(curveJSON), &res.EquityCurve); err != nil {
		return nil, fmt.Errorf("decoding equity curve: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT type, price, quantity, value, fee, bar_index, reason, pnl, pnl_pct
FROM trades WHERE result_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("loading trades for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t     domain.Trade
			ttype string
		)
		if err := rows.Scan(&ttype, &t.Price, &t.Quantity, &t.Value, &t.Fee, &t.Index, &t.Reason, &t.PnL, &t.PnLPercent); err != nil {
			return nil, err
		}
		t.Type = domain.TradeType(ttype)
		res.Trades = append(res.Trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &res, nil
}

// ListResults returns summaries of the most recent results, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]ResultSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, symbol, strategy, total_return_pct, sharpe_ratio, max_drawdown_pct,
	win_rate, total_trades, created_at
FROM results ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ResultSummary
	for rows.Next() {
		var sum ResultSummary
		if err := rows.Scan(&sum.ID, &sum.Symbol, &sum.Strategy, &sum.TotalReturnPercent,
			&sum.SharpeRatio, &sum.MaxDrawdownPercent, &sum.WinRate, &sum.TotalTrades,
			&sum.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
