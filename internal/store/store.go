// Package store provides the persistence collaborators around the backtest
// engine: parquet files for price series and equity curves, and a SQLite
// database for completed results. The engine itself performs no I/O; these
// stores feed it input and record its output.
package store

import (
	"context"
	"time"

	"osquant/internal/domain"
)

// PriceStore persists and retrieves ordered price series per symbol.
type PriceStore interface {
	// WritePrices persists the full price series for a symbol, replacing any
	// existing series.
	WritePrices(ctx context.Context, symbol string, prices []float64) error

	// ReadPrices returns the chronological price series for a symbol.
	ReadPrices(ctx context.Context, symbol string) ([]float64, error)

	// ListSymbols returns all symbols with a stored price series.
	ListSymbols(ctx context.Context) ([]string, error)
}

// ResultStore persists completed backtest results.
type ResultStore interface {
	// SaveResult stores the result with its full trade log and returns the
	// assigned result ID.
	SaveResult(ctx context.Context, res *domain.BacktestResult) (string, error)

	// GetResult retrieves a stored result by ID, including its trade log and
	// equity curve.
	GetResult(ctx context.Context, id string) (*domain.BacktestResult, error)

	// ListResults returns summaries of the most recent results, newest
	// first, up to limit.
	ListResults(ctx context.Context, limit int) ([]ResultSummary, error)
}

// ResultSummary is the lightweight listing row for a stored result.
type ResultSummary struct {
	ID                 string
	Symbol             string
	Strategy           string
	TotalReturnPercent float64
	SharpeRatio        float64
	MaxDrawdownPercent float64
	WinRate            float64
	TotalTrades        int
	CreatedAt          time.Time
}
