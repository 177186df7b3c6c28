package vaa

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/fatih/structs"
	"github.com/gocarina/gocsv"
	client "github.com/influxdata/influxdb1-client/v2"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/kodjac/vaa/models"
)

// computeStats aggregates the closed-position history across instruments.
func computeStats(instruments []*models.Instrument) models.Stats {
	stats := models.Stats{ProfitByTicker: make(map[string]float64)}

	var profits []float64
	var wins []float64
	var losses []float64
	var holdMonths []float64
	for _, ins := range instruments {
		closed := ins.ClosedPositions()
		if len(closed) > 0 {
			stats.ProfitByTicker[ins.Ticker] = ins.TotalProfit()
		}
		for _, pos := range closed {
			pct := pos.ProfitPercent(0)
			profits = append(profits, pct)
			if pct > 0 {
				wins = append(wins, pct)
			} else {
				losses = append(losses, pct)
			}
			holdMonths = append(holdMonths, monthsBetween(pos.OpenDate, pos.CloseDate))
		}
	}

	stats.TotalPositions = len(profits)
	stats.WinningPositions = len(wins)
	stats.LosingPositions = len(losses)
	if len(profits) == 0 {
		return stats
	}
	stats.WinRate = float64(len(wins)) / float64(len(profits))
	stats.AveragePositionProfit = SumArr(profits) / float64(len(profits))
	stats.AverageHoldMonths = SumArr(holdMonths) / float64(len(holdMonths))
	if len(wins) > 0 {
		stats.AverageWinningProfit = SumArr(wins) / float64(len(wins))
	}
	if len(losses) > 0 {
		stats.AverageLosingLoss = SumArr(losses) / float64(len(losses))
	}
	if stats.AverageLosingLoss != 0 {
		stats.RiskReward = stats.AverageWinningProfit / math.Abs(stats.AverageLosingLoss)
		stats.WinsNeeded = 1 / (1 + stats.RiskReward)
	}
	return stats
}

func monthsBetween(open, close time.Time) float64 {
	return float64(int(close.Month()) - int(open.Month()) + 12*(close.Year()-open.Year()))
}

// equityRatios derives annualized Sharpe and Sortino ratios from the monthly
// equity curve.
func equityRatios(history []models.Snapshot) (sharpe, sortino float64) {
	if len(history) < 2 {
		return 0, 0
	}
	percentReturn := make([]float64, len(history))
	downside := make([]float64, 0, len(history))
	last := 0.0
	for i, snap := range history {
		if i > 0 {
			percentReturn[i] = CalculateDifference(snap.Equity, last)
			if percentReturn[i] < 0 {
				downside = append(downside, percentReturn[i])
			}
		}
		last = snap.Equity
	}

	mean, std := stat.MeanStdDev(percentReturn, nil)
	if std > 0 {
		sharpe = mean / std * math.Sqrt(12)
	}
	_, downsideStd := stat.MeanStdDev(downside, nil)
	if downsideStd > 0 {
		sortino = mean / downsideStd * math.Sqrt(12)
	}
	if math.IsNaN(sharpe) {
		sharpe = 0
	}
	if math.IsNaN(sortino) {
		sortino = 0
	}
	return sharpe, sortino
}

// Report renders the result and stats as sorted key/value lines.
func (bt *Backtest) Report() string {
	kv := CreateKeyValuePairs(structs.Map(bt.Result))
	kv += CreateKeyValuePairs(structs.Map(bt.Stats))
	return kv
}

// WriteHistoryCSV exports the equity curve for the plotting layer.
func (bt *Backtest) WriteHistoryCSV(path string) error {
	os.Remove(path)
	historyFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, os.ModePerm)
	if err != nil {
		return fmt.Errorf("open history csv: %w", err)
	}
	defer historyFile.Close()

	if err := gocsv.MarshalFile(&bt.Portfolio.History, historyFile); err != nil {
		return fmt.Errorf("write history csv: %w", err)
	}
	return nil
}

// LogCloudBacktest pushes the equity curve to an influx instance configured
// through VAA_BACKTEST_DB_URL / _USER / _PASSWORD.
func (bt *Backtest) LogCloudBacktest() error {
	influxURL := os.Getenv("VAA_BACKTEST_DB_URL")
	if influxURL == "" {
		return fmt.Errorf("the VAA_BACKTEST_DB_URL env variable is not set")
	}

	influx, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     influxURL,
		Username: os.Getenv("VAA_BACKTEST_DB_USER"),
		Password: os.Getenv("VAA_BACKTEST_DB_PASSWORD"),
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return err
	}
	defer influx.Close()

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  "backtests",
		Precision: "us",
	})
	if err != nil {
		return err
	}

	tags := map[string]string{"run_id": bt.Result.RunID}
	for _, snap := range bt.Portfolio.History {
		pt, err := client.NewPoint(
			"equity",
			tags,
			map[string]interface{}{
				"equity":   snap.Equity,
				"cash":     snap.Cash,
				"drawdown": snap.Drawdown,
			},
			snap.Date,
		)
		if err != nil {
			return err
		}
		bp.AddPoint(pt)
	}
	if err := influx.Write(bp); err != nil {
		return err
	}
	log.Info().Str("run_id", bt.Result.RunID).Int("points", len(bt.Portfolio.History)).Msg("logged equity curve to influx")
	return nil
}
