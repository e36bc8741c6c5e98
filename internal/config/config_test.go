package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/osquant/data"
  sqlite_path: "/tmp/osquant/osquant.db"
logging:
  level: "debug"
  format: "json"
backtest:
  initial_capital: 25000
  fee_rate: 0.002
`)

	tmpFile, err := os.CreateTemp("", "osquant-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/osquant/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/osquant/data")
	}
	if cfg.Storage.SQLitePath != "/tmp/osquant/osquant.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/tmp/osquant/osquant.db")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Backtest.InitialCapital != 25000 {
		t.Errorf("Backtest.InitialCapital = %v, want 25000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.FeeRate != 0.002 {
		t.Errorf("Backtest.FeeRate = %v, want 0.002", cfg.Backtest.FeeRate)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	// Keys absent from the file keep their defaults, while an explicit zero
	// fee rate is honored.
	yamlContent := []byte(`
backtest:
  fee_rate: 0
`)

	tmpFile, err := os.CreateTemp("", "osquant-config-partial-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Backtest.FeeRate != 0 {
		t.Errorf("Backtest.FeeRate = %v, want explicit 0", cfg.Backtest.FeeRate)
	}
	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("Backtest.InitialCapital = %v, want default 10000", cfg.Backtest.InitialCapital)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/original/data"
logging:
  level: "warn"
`)

	tmpFile, err := os.CreateTemp("", "osquant-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	// Set environment overrides.
	os.Setenv("DATA_DIR", "/env/data")
	os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
	// level should remain from YAML since no env override was set.
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q (from YAML)", cfg.Logging.Level, "warn")
	}
}
