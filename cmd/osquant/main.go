// Command osquant runs strategy backtests against stored or file-supplied
// price series.
//
// Usage:
//
//	osquant run -symbol BTC -strategy sma_crossover
//	osquant compare -symbol BTC -strategies sma_crossover,rsi,momentum
//	osquant strategies
//	osquant results
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"osquant/internal/backtest"
	"osquant/internal/config"
	"osquant/internal/report"
	"osquant/internal/store"
	"osquant/internal/strategy"
	"osquant/internal/strategy/builtins"
	"osquant/internal/util"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: osquant <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  run         Run one strategy against a price series\n")
		fmt.Fprintf(os.Stderr, "  compare     Run several strategies and rank them\n")
		fmt.Fprintf(os.Stderr, "  strategies  List registered strategies\n")
		fmt.Fprintf(os.Stderr, "  results     List saved backtest results\n")
		fmt.Fprintf(os.Stderr, "  import      Import a CSV price series into the data dir\n")
		fmt.Fprintf(os.Stderr, "  version     Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(cfg, os.Args[2:])
	case "compare":
		err = cmdCompare(cfg, os.Args[2:])
	case "strategies":
		err = cmdStrategies()
	case "results":
		err = cmdResults(cfg, os.Args[2:])
	case "import":
		err = cmdImport(cfg, os.Args[2:])
	case "version":
		fmt.Printf("osquant %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfgPath := "config/osquant.yaml"
	if p := os.Getenv("OSQUANT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) && os.Getenv("OSQUANT_CONFIG") == "" {
			return config.Default()
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func cmdRun(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to run against (reads stored prices)")
	pricesFile := fs.String("prices", "", "CSV file of closing prices (overrides -symbol data)")
	stratName := fs.String("strategy", "sma_crossover", "strategy name")
	capital := fs.Float64("capital", cfg.Backtest.InitialCapital, "initial capital")
	fee := fs.Float64("fee", cfg.Backtest.FeeRate, "fee rate per trade side")
	days := fs.Int("days", 0, "calendar days the series spans (default: one per bar)")
	assetType := fs.String("asset", "stock", "asset type label")
	params := fs.String("params", "", "strategy param overrides, e.g. short_period=5,long_period=20")
	save := fs.Bool("save", false, "save the result to the SQLite store")
	exportEquity := fs.Bool("export-equity", false, "write the equity curve to a parquet file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prices, err := loadPrices(cfg, *symbol, *pricesFile)
	if err != nil {
		return err
	}

	overrides, err := parseParams(*params)
	if err != nil {
		return err
	}

	runCfg := backtest.Config{
		Symbol:         strings.ToUpper(*symbol),
		AssetType:      *assetType,
		Strategy:       *stratName,
		Days:           *days,
		InitialCapital: *capital,
		FeeRate:        *fee,
		Params:         overrides,
	}

	res, err := backtest.RunStrategy(builtins.NewRegistry(), prices, runCfg)
	if err != nil {
		return err
	}

	fmt.Print(report.Result(res))
	fmt.Println()
	fmt.Print(report.Trades(res.Trades))

	ctx := context.Background()
	if *exportEquity {
		ps := store.NewParquetStore(cfg.Storage.DataDir)
		path, err := ps.ExportEquityCurve(ctx, res)
		if err != nil {
			return fmt.Errorf("exporting equity curve: %w", err)
		}
		fmt.Printf("\nequity curve written to %s\n", path)
	}
	if *save {
		db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		defer db.Close()

		id, err := db.SaveResult(ctx, res)
		if err != nil {
			return fmt.Errorf("saving result: %w", err)
		}
		fmt.Printf("\nsaved result %s\n", id)
	}

	return nil
}

// ---------------------------------------------------------------------------
// compare
// ---------------------------------------------------------------------------

func cmdCompare(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to run against (reads stored prices)")
	pricesFile := fs.String("prices", "", "CSV file of closing prices (overrides -symbol data)")
	strategies := fs.String("strategies", "", "comma-separated strategy names (default: all)")
	capital := fs.Float64("capital", cfg.Backtest.InitialCapital, "initial capital")
	fee := fs.Float64("fee", cfg.Backtest.FeeRate, "fee rate per trade side")
	days := fs.Int("days", 0, "calendar days the series spans (default: one per bar)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prices, err := loadPrices(cfg, *symbol, *pricesFile)
	if err != nil {
		return err
	}

	reg := builtins.NewRegistry()
	names := reg.List()
	if *strategies != "" {
		names = strings.Split(*strategies, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
	}

	runCfg := backtest.Config{
		Symbol:         strings.ToUpper(*symbol),
		Days:           *days,
		InitialCapital: *capital,
		FeeRate:        *fee,
	}

	cmp, err := backtest.Compare(reg, prices, names, runCfg)
	if err != nil {
		return err
	}

	fmt.Print(report.Ranking(cmp))
	return nil
}

// ---------------------------------------------------------------------------
// strategies / results / import
// ---------------------------------------------------------------------------

func cmdStrategies() error {
	for _, name := range builtins.NewRegistry().List() {
		fmt.Println(name)
	}
	return nil
}

func cmdResults(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum rows to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening result store: %w", err)
	}
	defer db.Close()

	rows, err := db.ListResults(context.Background(), *limit)
	if err != nil {
		return err
	}
	fmt.Print(report.Summaries(rows))
	return nil
}

func cmdImport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to store the series under")
	pricesFile := fs.String("prices", "", "CSV file of closing prices")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *symbol == "" || *pricesFile == "" {
		return fmt.Errorf("import requires -symbol and -prices")
	}

	prices, err := readPricesCSV(*pricesFile)
	if err != nil {
		return err
	}

	ps := store.NewParquetStore(cfg.Storage.DataDir)
	if err := ps.WritePrices(context.Background(), *symbol, prices); err != nil {
		return err
	}
	fmt.Printf("imported %d bars for %s\n", len(prices), strings.ToUpper(*symbol))
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// loadPrices resolves the price series for a run: an explicit CSV file wins,
// otherwise the stored parquet series for the symbol.
func loadPrices(cfg *config.Config, symbol, pricesFile string) ([]float64, error) {
	if pricesFile != "" {
		return readPricesCSV(pricesFile)
	}
	if symbol == "" {
		return nil, fmt.Errorf("either -symbol or -prices is required")
	}

	ps := store.NewParquetStore(cfg.Storage.DataDir)
	return ps.ReadPrices(context.Background(), symbol)
}

// readPricesCSV reads closing prices from a CSV file. The price is taken from
// the last column of each row, so both bare price lists and date,price files
// work. A non-numeric first row is treated as a header and skipped.
func readPricesCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var prices []float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if len(record) == 0 {
			continue
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(record[len(record)-1]), 64)
		if err != nil {
			if len(prices) == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("bad price %q in %s", record[len(record)-1], path)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

// parseParams parses "key=value,key=value" strategy overrides.
func parseParams(s string) (strategy.Params, error) {
	if s == "" {
		return nil, nil
	}
	params := strategy.Params{}
	for _, pair := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("bad param %q, want key=value", pair)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("bad param value %q: %w", pair, err)
		}
		params[key] = f
	}
	return params, nil
}
