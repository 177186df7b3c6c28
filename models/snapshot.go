package models

import "time"

// Snapshot records the portfolio state after all decisions of one simulated
// step have been applied. One snapshot is taken per step; the series forms
// the equity curve consumed by the reporting layer.
type Snapshot struct {
	Timestamp   string             `csv:"timestamp"`
	Cash        float64            `csv:"cash"`
	Equity      float64            `csv:"equity"`
	Holding     string             `csv:"holding"`
	MarketValue float64            `csv:"market_value"`
	Drawdown    float64            `csv:"drawdown"`
	Date        time.Time          `csv:"-"`
	Marks       map[string]float64 `csv:"-"`
}
