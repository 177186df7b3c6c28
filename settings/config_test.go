package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cash.Initial != 100000 {
		t.Errorf("got initial cash %v, expected 100000", cfg.Cash.Initial)
	}
	if cfg.Commission != 6.5 {
		t.Errorf("got commission %v, expected 6.5", cfg.Commission)
	}
	if cfg.Indicator.Mode != Mode13612W {
		t.Errorf("got mode %v, expected %v", cfg.Indicator.Mode, Mode13612W)
	}
	if cfg.Indicator.Precision != 2 {
		t.Errorf("got precision %v, expected 2", cfg.Indicator.Precision)
	}
	if cfg.WarmupMonthEnds != 12 {
		t.Errorf("got warmup %v, expected 12", cfg.WarmupMonthEnds)
	}
	if len(cfg.Buckets.Risk) != 4 || len(cfg.Buckets.Cash) != 3 {
		t.Errorf("got buckets %v / %v, expected the VAA-G4 defaults", cfg.Buckets.Risk, cfg.Buckets.Cash)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
cash:
  initial: 5500
  monthly_contribution: 100
commission: 5
buckets:
  risk: [SPY, EFA]
  cash: [SHY]
indicator:
  mode: simple
  lookback: 6
start_date: "2005-01-01"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cash.Initial != 5500 || cfg.Cash.MonthlyContribution != 100 {
		t.Errorf("bad cash config: %+v", cfg.Cash)
	}
	if cfg.Indicator.Mode != ModeSimple || cfg.Indicator.Lookback != 6 {
		t.Errorf("bad indicator config: %+v", cfg.Indicator)
	}
	start, err := cfg.StartTime()
	if err != nil {
		t.Fatal(err)
	}
	if start.Year() != 2005 {
		t.Errorf("got start %v, expected 2005", start)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VAA_INITIAL_CASH", "2500")
	t.Setenv("VAA_DATA_DIR", "/tmp/bars")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cash.Initial != 2500 {
		t.Errorf("got initial cash %v, expected env override 2500", cfg.Cash.Initial)
	}
	if cfg.DataDir != "/tmp/bars" {
		t.Errorf("got data dir %v, expected env override", cfg.DataDir)
	}
}

func TestValidateRejectsOverlappingBuckets(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Buckets.Risk = []string{"SPY", "SHY"}
	cfg.Buckets.Cash = []string{"SHY"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a ticker in both buckets")
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Indicator.Mode = "rsi"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown indicator mode")
	}
}

func TestValidateRejectsBadDates(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.StartDate = "01/02/2005"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a malformed start date")
	}
}
