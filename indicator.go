package vaa

import (
	"fmt"
	"time"

	"github.com/kodjac/vaa/models"
	"github.com/kodjac/vaa/settings"
)

// Indicator computes a momentum score for a price series anchored at a
// month-end date. Two modes are supported: the weighted 13612W dual-momentum
// score and a plain lookback momentum used as a baseline.
type Indicator struct {
	Mode     string
	Lookback int
	// Scale multiplies the raw score for readability, Precision rounds the
	// result to a fixed number of decimals. Precision < 0 disables rounding.
	Scale     float64
	Precision int
}

// NewIndicator builds an indicator from the configuration surface.
func NewIndicator(cfg *settings.Config) Indicator {
	return Indicator{
		Mode:      cfg.Indicator.Mode,
		Lookback:  cfg.Indicator.Lookback,
		Scale:     cfg.Indicator.Scale,
		Precision: cfg.Indicator.Precision,
	}
}

// MinMonthEnds returns how many month-end closes must exist at the anchor
// date, anchor included.
func (ind Indicator) MinMonthEnds() int {
	if ind.Mode == settings.ModeSimple {
		return ind.Lookback + 1
	}
	return 13
}

// Score computes the momentum score for series at anchor. The anchor must be
// a month-end date of the series with enough preceding month-end closes,
// otherwise ErrInsufficientHistory is returned before any index access.
func (ind Indicator) Score(series *models.PriceSeries, anchor time.Time) (float64, error) {
	pos, ok := series.MonthEndPosition(anchor)
	if !ok || pos+1 < ind.MinMonthEnds() {
		return 0, fmt.Errorf("%v needs %d month-end closes at %v: %w",
			series.Ticker(), ind.MinMonthEnds(), anchor.Format("2006-01-02"), models.ErrInsufficientHistory)
	}
	closes := series.MonthEndCloses()[:pos+1]

	var score float64
	switch ind.Mode {
	case settings.ModeSimple:
		score = last(GetMom(closes, ind.Lookback))
	default:
		// 12*(p0/p1-1) + 4*(p0/p3-1) + 2*(p0/p6-1) + (p0/p12-1), with the
		// ratio terms expressed as rates of change. The 1-month leg weight
		// favors recency, the 12-month leg trend persistence.
		score = (12*last(GetRoc(closes, 1)) +
			4*last(GetRoc(closes, 3)) +
			2*last(GetRoc(closes, 6)) +
			last(GetRoc(closes, 12))) / 100
	}
	score *= ind.Scale
	if ind.Precision >= 0 {
		score = ToFixed(score, ind.Precision)
	}
	return score, nil
}
