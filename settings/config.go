// Package settings loads the strategy configuration from a YAML file with
// environment variable overrides.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Indicator modes.
const (
	Mode13612W = "13612W"
	ModeSimple = "simple"
)

// Config holds the full configuration surface of a backtest run.
type Config struct {
	Cash struct {
		Initial             float64 `yaml:"initial"`
		MonthlyContribution float64 `yaml:"monthly_contribution"`
	} `yaml:"cash"`
	Commission float64 `yaml:"commission"`
	Buckets    struct {
		Risk              []string `yaml:"risk"`
		Cash              []string `yaml:"cash"`
		IgnoredFromRegime []string `yaml:"ignored_from_regime"`
		LowConviction     []string `yaml:"low_conviction"`
	} `yaml:"buckets"`
	Indicator struct {
		Mode      string  `yaml:"mode"`
		Lookback  int     `yaml:"lookback"`
		Scale     float64 `yaml:"scale"`
		Precision int     `yaml:"precision"`
	} `yaml:"indicator"`
	WarmupMonthEnds int    `yaml:"warmup_month_ends"`
	StartDate       string `yaml:"start_date"`
	EndDate         string `yaml:"end_date"`
	MaxSteps        int    `yaml:"max_steps"`

	// DenylistAppliesToCash extends the low-conviction re-resolution to
	// evaluations that already select from the cash bucket.
	DenylistAppliesToCash bool `yaml:"denylist_applies_to_cash"`

	DataDir string `yaml:"data_dir"`
	Results struct {
		CSVPath  string `yaml:"csv_path"`
		Postgres struct {
			Enabled bool   `yaml:"enabled"`
			DSN     string `yaml:"dsn"`
		} `yaml:"postgres"`
		Influx struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"influx"`
	} `yaml:"results"`
	Debug bool `yaml:"debug"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("VAA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VAA_RESULTS_DSN"); v != "" {
		cfg.Results.Postgres.DSN = v
		cfg.Results.Postgres.Enabled = true
	}
	if v := os.Getenv("VAA_INITIAL_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cash.Initial = cash
		}
	}
	if v := os.Getenv("VAA_DEBUG"); v != "" {
		cfg.Debug = v == "1" || v == "true"
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cash.Initial == 0 {
		c.Cash.Initial = 100000
	}
	if c.Commission == 0 {
		c.Commission = 6.5
	}
	if len(c.Buckets.Risk) == 0 {
		c.Buckets.Risk = []string{"SPY", "EFA", "EEM", "AGG"}
	}
	if len(c.Buckets.Cash) == 0 {
		c.Buckets.Cash = []string{"LQD", "IEF", "SHY"}
	}
	if c.Indicator.Mode == "" {
		c.Indicator.Mode = Mode13612W
	}
	if c.Indicator.Lookback == 0 {
		c.Indicator.Lookback = 3
	}
	if c.Indicator.Scale == 0 {
		c.Indicator.Scale = 1
	}
	if c.Indicator.Precision == 0 {
		c.Indicator.Precision = 2
	}
	if c.WarmupMonthEnds == 0 {
		c.WarmupMonthEnds = 12
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
}

// Validate checks the configuration for contradictions before a run.
func (c *Config) Validate() error {
	if c.Cash.Initial <= 0 {
		return fmt.Errorf("cash.initial must be positive")
	}
	if c.Commission < 0 {
		return fmt.Errorf("commission cannot be negative")
	}
	if len(c.Buckets.Risk) == 0 || len(c.Buckets.Cash) == 0 {
		return fmt.Errorf("buckets.risk and buckets.cash must not be empty")
	}
	seen := make(map[string]bool)
	for _, t := range append(append([]string{}, c.Buckets.Risk...), c.Buckets.Cash...) {
		if seen[t] {
			return fmt.Errorf("ticker %v appears in more than one bucket", t)
		}
		seen[t] = true
	}
	if c.Indicator.Mode != Mode13612W && c.Indicator.Mode != ModeSimple {
		return fmt.Errorf("indicator.mode must be %q or %q", Mode13612W, ModeSimple)
	}
	if c.Indicator.Mode == ModeSimple && c.Indicator.Lookback < 1 {
		return fmt.Errorf("indicator.lookback must be at least 1")
	}
	if c.WarmupMonthEnds < 0 {
		return fmt.Errorf("warmup_month_ends cannot be negative")
	}
	if _, err := c.StartTime(); err != nil {
		return err
	}
	if _, err := c.EndTime(); err != nil {
		return err
	}
	return nil
}

// StartTime parses the optional start date clamp.
func (c *Config) StartTime() (time.Time, error) {
	return parseDate("start_date", c.StartDate)
}

// EndTime parses the optional end date clamp.
func (c *Config) EndTime() (time.Time, error) {
	return parseDate("end_date", c.EndDate)
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%v: %w", field, err)
	}
	return t, nil
}
