package vaa

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kodjac/vaa/models"
)

// Backtest drives the simulation: it walks the clock instrument's month-end
// dates after the warm-up offset, applies the optional monthly contribution,
// lets the rotation engine trade, snapshots the portfolio once per step and
// derives the final metrics. An aborted run still reports partial metrics
// from whatever happened before the abort.
type Backtest struct {
	Portfolio *Portfolio
	Engine    *RotationEngine

	InitialCash  float64
	Contribution float64
	Warmup       int
	Start        time.Time
	End          time.Time
	// MaxSteps bounds the number of simulated steps; 0 means no bound.
	MaxSteps int

	clock *models.PriceSeries

	Result models.Result
	Stats  models.Stats
}

// Run simulates the strategy over all evaluation dates and returns the
// end-of-run metrics. Recoverable conditions (a rejected buy) are logged and
// skipped; invariant violations and post-warm-up history gaps abort the run
// with the offending date and ticker in the error.
func (bt *Backtest) Run() (models.Result, error) {
	started := time.Now()
	all := bt.clock.MonthEndDates()
	if len(all) <= bt.Warmup {
		return bt.Result, fmt.Errorf("%v has %d month-ends, warm-up needs more than %d: %w",
			bt.clock.Ticker(), len(all), bt.Warmup, models.ErrInsufficientHistory)
	}
	dates := clampMonthEnds(all[bt.Warmup:], bt.Start, bt.End)
	if len(dates) == 0 {
		return bt.Result, fmt.Errorf("no evaluation dates between start and end: %w", models.ErrInsufficientHistory)
	}
	log.Info().Str("clock", bt.clock.Ticker()).Int("steps", len(dates)).
		Str("first", dates[0].Format("2006-01-02")).
		Str("last", dates[len(dates)-1].Format("2006-01-02")).Msg("running backtest")

	var lastDate time.Time
	aborted := false
	for i, date := range dates {
		if bt.MaxSteps > 0 && i >= bt.MaxSteps {
			aborted = true
			break
		}
		if bt.Contribution > 0 && i > 0 {
			bt.Portfolio.Cash += bt.Contribution
		}
		_, err := bt.Engine.Evaluate(date)
		if err != nil && !errors.Is(err, models.ErrInsufficientFunds) {
			bt.finalize(lastDate, true, started)
			return bt.Result, err
		}
		snap, err := bt.Portfolio.Snapshot(date)
		if err != nil {
			bt.finalize(lastDate, true, started)
			return bt.Result, err
		}
		lastDate = date
		log.Debug().Str("date", snap.Timestamp).Float64("cash", snap.Cash).
			Float64("equity", snap.Equity).Str("holding", snap.Holding).Msg("step")
	}

	// Liquidate so the final balance is realized cash.
	if held, err := bt.Portfolio.ActivePosition(); err != nil {
		bt.finalize(lastDate, true, started)
		return bt.Result, err
	} else if held != nil {
		if err := bt.Portfolio.Sell(held, lastDate); err != nil {
			bt.finalize(lastDate, true, started)
			return bt.Result, err
		}
	}

	bt.finalize(lastDate, aborted, started)
	return bt.Result, nil
}

// finalize computes metrics from the recorded history and closed positions.
func (bt *Backtest) finalize(lastDate time.Time, aborted bool, started time.Time) {
	months := len(bt.Portfolio.History)
	final := bt.Portfolio.Cash

	result := models.Result{
		RunID:       uuid.New().String(),
		Balance:     final,
		MaxDrawdown: bt.Portfolio.MaxDrawdown,
		Months:      months,
		Aborted:     aborted,
	}
	if months > 0 && bt.InitialCash > 0 {
		result.CAGR = (math.Pow(final/bt.InitialCash, 12/float64(months)) - 1) * 100
	}

	closed := bt.ClosedPositions()
	result.Trades = len(closed)
	for i, pos := range closed {
		pct := pos.ProfitPercent(0)
		if i == 0 || pct > result.BestTrade {
			result.BestTrade = pct
		}
		if i == 0 || pct < result.WorstTrade {
			result.WorstTrade = pct
		}
	}

	result.Sharpe, result.Sortino = equityRatios(bt.Portfolio.History)
	bt.Result = result
	bt.Stats = computeStats(bt.Portfolio.Instruments())

	log.Info().Str("run_id", result.RunID).Float64("balance", final).
		Float64("cagr", result.CAGR).Float64("max_drawdown", result.MaxDrawdown).
		Int("trades", result.Trades).Dur("elapsed", time.Since(started)).
		Str("end", lastDate.Format("2006-01-02")).Msg("backtest finished")
}

// ClosedPositions returns the full realized trade history of the run.
func (bt *Backtest) ClosedPositions() []*models.Position {
	var closed []*models.Position
	for _, ins := range bt.Portfolio.Instruments() {
		closed = append(closed, ins.ClosedPositions()...)
	}
	return closed
}
