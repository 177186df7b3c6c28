package vaa

import (
	"testing"
	"time"

	"github.com/kodjac/vaa/models"
	"github.com/kodjac/vaa/settings"
)

// monthlyBars generates two bars per month starting 2020-01, the 27th being
// the month-end with the given close.
func monthlyBars(closes []float64) []models.Bar {
	var bars []models.Bar
	for i, c := range closes {
		for _, day := range []int{14, 27} {
			date := time.Date(2020, time.Month(i+1), day, 0, 0, 0, 0, time.UTC)
			bars = append(bars, models.Bar{
				Timestamp: date.UnixMilli(),
				Open:      c,
				High:      c,
				Low:       c,
				Close:     c,
				Volume:    1000,
			})
		}
	}
	return bars
}

func monthEnd(month int) time.Time {
	return time.Date(2020, time.Month(month+1), 27, 0, 0, 0, 0, time.UTC)
}

func rampCloses(start, step float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return closes
}

func testSeries(t *testing.T, ticker string, closes []float64) *models.PriceSeries {
	t.Helper()
	series, err := models.NewPriceSeries(ticker, monthlyBars(closes))
	if err != nil {
		t.Fatal(err)
	}
	return series
}

// testConfig builds a minimal valid run configuration for the given buckets.
func testConfig(risk, cash []string) *settings.Config {
	cfg := &settings.Config{}
	cfg.Cash.Initial = 100000
	cfg.Commission = 6.5
	cfg.Buckets.Risk = risk
	cfg.Buckets.Cash = cash
	cfg.Indicator.Mode = settings.Mode13612W
	cfg.Indicator.Lookback = 3
	cfg.Indicator.Scale = 1
	cfg.Indicator.Precision = -1
	cfg.WarmupMonthEnds = 12
	return cfg
}
