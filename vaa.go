// Package vaa implements a month-end momentum rotation backtester in the
// "Vigilant Asset Allocation" style: a weighted multi-horizon momentum score
// ranks a risk bucket and a cash bucket, a negative score anywhere in the
// risk bucket flips the regime to cash, and the portfolio holds exactly one
// fully-invested position at a time.
package vaa

import (
	"fmt"
	"time"

	"github.com/kodjac/vaa/models"
	"github.com/kodjac/vaa/settings"
)

// CreateNewBacktest wires instruments, portfolio and rotation engine from a
// configuration and per-ticker bar histories. Every configured ticker must
// resolve to exactly one bar history.
func CreateNewBacktest(cfg *settings.Config, bars map[string][]models.Bar) (*Backtest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ignored := toSet(cfg.Buckets.IgnoredFromRegime)
	denied := toSet(cfg.Buckets.LowConviction)

	var instruments []*models.Instrument
	var clock *models.PriceSeries
	add := func(tickers []string, bucket models.Bucket) error {
		for _, ticker := range tickers {
			history, ok := bars[ticker]
			if !ok {
				return fmt.Errorf("no bar data for configured ticker %v", ticker)
			}
			series, err := models.NewPriceSeries(ticker, history)
			if err != nil {
				return err
			}
			ins := models.NewInstrument(series, bucket)
			ins.IgnoreFromRegime = ignored[ticker]
			ins.LowConviction = denied[ticker]
			instruments = append(instruments, ins)
			// The latest-starting instrument constrains the whole run and
			// acts as the shared clock.
			if clock == nil || series.FirstDate().After(clock.FirstDate()) {
				clock = series
			}
		}
		return nil
	}
	if err := add(cfg.Buckets.Risk, models.BucketRisk); err != nil {
		return nil, err
	}
	if err := add(cfg.Buckets.Cash, models.BucketCash); err != nil {
		return nil, err
	}

	portfolio := NewPortfolio(cfg.Cash.Initial, cfg.Commission, instruments)
	engine := NewRotationEngine(portfolio, NewIndicator(cfg),
		cfg.Buckets.Risk, cfg.Buckets.Cash, clock, cfg.DenylistAppliesToCash)

	start, _ := cfg.StartTime()
	end, _ := cfg.EndTime()
	return &Backtest{
		Portfolio:    portfolio,
		Engine:       engine,
		InitialCash:  cfg.Cash.Initial,
		Contribution: cfg.Cash.MonthlyContribution,
		Warmup:       cfg.WarmupMonthEnds,
		Start:        start,
		End:          end,
		MaxSteps:     cfg.MaxSteps,
		clock:        clock,
	}, nil
}

func toSet(tickers []string) map[string]bool {
	set := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		set[t] = true
	}
	return set
}

// clampMonthEnds restricts dates to the closed interval [start, end]. Zero
// bounds are open.
func clampMonthEnds(dates []time.Time, start, end time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}
