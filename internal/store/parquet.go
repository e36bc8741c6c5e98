package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"osquant/internal/domain"
)

// Compile-time interface check.
var _ PriceStore = (*ParquetStore)(nil)

// ParquetStore implements PriceStore using Parquet files on disk, and can
// additionally export a result's equity curve for offline analysis.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// PriceRecord is the Parquet schema for one bar of a price series.
type PriceRecord struct {
	Symbol string  `parquet:"symbol"`
	Bar    int64   `parquet:"bar"` // 0-based chronological index
	Close  float64 `parquet:"close"`
}

// EquityRecord is the Parquet schema for one bar of an exported equity curve.
type EquityRecord struct {
	Symbol   string  `parquet:"symbol"`
	Strategy string  `parquet:"strategy"`
	Bar      int64   `parquet:"bar"`
	Equity   float64 `parquet:"equity"`
}

// ---------------------------------------------------------------------------
// PriceStore implementation
// ---------------------------------------------------------------------------

// WritePrices writes the full price series for a symbol to
// <DataDir>/prices/<SYMBOL>.parquet, replacing any existing file.
func (s *ParquetStore) WritePrices(_ context.Context, symbol string, prices []float64) error {
	records := make([]PriceRecord, len(prices))
	for i, p := range prices {
		records[i] = PriceRecord{
			Symbol: strings.ToUpper(symbol),
			Bar:    int64(i),
			Close:  p,
		}
	}
	if err := writeParquetFile(s.pricePath(symbol), records); err != nil {
		return fmt.Errorf("writing prices for %s: %w", symbol, err)
	}
	return nil
}

// ReadPrices reads the price series for a symbol, ordered by bar index.
func (s *ParquetStore) ReadPrices(_ context.Context, symbol string) ([]float64, error) {
	records, err := readParquetFile[PriceRecord](s.pricePath(symbol))
	if err != nil {
		return nil, fmt.Errorf("reading prices for %s: %w", symbol, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Bar < records[j].Bar
	})

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.Close
	}
	return prices, nil
}

// ListSymbols lists all symbols with a stored price series, sorted.
func (s *ParquetStore) ListSymbols(_ context.Context) ([]string, error) {
	dir := filepath.Join(s.DataDir, "prices")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var symbols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".parquet") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".parquet"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// ---------------------------------------------------------------------------
// Equity curve export
// ---------------------------------------------------------------------------

// ExportEquityCurve writes a result's per-bar equity curve to
// <DataDir>/equity/<SYMBOL>-<strategy>.parquet and returns the path.
func (s *ParquetStore) ExportEquityCurve(_ context.Context, res *domain.BacktestResult) (string, error) {
	records := make([]EquityRecord, len(res.EquityCurve))
	for i, e := range res.EquityCurve {
		records[i] = EquityRecord{
			Symbol:   strings.ToUpper(res.Symbol),
			Strategy: res.Strategy,
			Bar:      int64(i),
			Equity:   e,
		}
	}

	name := fmt.Sprintf("%s-%s.parquet", strings.ToUpper(res.Symbol), res.Strategy)
	path := filepath.Join(s.DataDir, "equity", name)
	if err := writeParquetFile(path, records); err != nil {
		return "", fmt.Errorf("exporting equity curve for %s: %w", res.Symbol, err)
	}
	return path, nil
}

// ---------------------------------------------------------------------------
// Path and file helpers
// ---------------------------------------------------------------------------

// pricePath returns the filesystem path for a symbol's price series.
// Layout: <dataDir>/prices/<SYMBOL>.parquet
func (s *ParquetStore) pricePath(symbol string) string {
	return filepath.Join(s.DataDir, "prices", strings.ToUpper(symbol)+".parquet")
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
