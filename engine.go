package vaa

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kodjac/vaa/models"
)

// RotationEngine is the decision core. On every month-end date it scores all
// risk and cash instruments, gates the regime on negative risk momentum,
// picks the best-ranked candidate and rotates the portfolio into it. Off
// month-end dates it is a pass-through. The engine keeps no state of its
// own: the current holding is whatever position is active in the portfolio.
type RotationEngine struct {
	portfolio *Portfolio
	indicator Indicator
	risk      []string
	cash      []string

	// clock is the series whose month-end dates define evaluation points,
	// the latest-starting instrument of the run.
	clock *models.PriceSeries

	// denylistAppliesToCash extends the low-conviction re-resolution to the
	// bad-regime branch where the candidate already comes from the cash
	// bucket.
	denylistAppliesToCash bool
}

// Decision describes what one evaluation did, for the event log and tests.
type Decision struct {
	Date       time.Time
	Scores     map[string]float64
	Bad        []string
	GoodRegime bool
	Best       string
	Rotated    bool
}

func NewRotationEngine(p *Portfolio, ind Indicator, risk, cash []string, clock *models.PriceSeries, denylistAppliesToCash bool) *RotationEngine {
	return &RotationEngine{
		portfolio:             p,
		indicator:             ind,
		risk:                  risk,
		cash:                  cash,
		clock:                 clock,
		denylistAppliesToCash: denylistAppliesToCash,
	}
}

// Evaluate runs one rotation decision at date.
func (e *RotationEngine) Evaluate(date time.Time) (Decision, error) {
	dec := Decision{Date: date}
	if !e.clock.IsMonthEnd(date) {
		return dec, nil
	}

	dec.Scores = make(map[string]float64, len(e.risk)+len(e.cash))
	for _, ticker := range append(append([]string{}, e.risk...), e.cash...) {
		ins, err := e.portfolio.Instrument(ticker)
		if err != nil {
			return dec, err
		}
		score, err := e.indicator.Score(ins.Series, date)
		if err != nil {
			return dec, err
		}
		dec.Scores[ticker] = score
	}

	// Any negative momentum in the risk bucket flips the regime to bad,
	// unless the instrument is excluded from the gate.
	for _, ticker := range e.risk {
		ins, _ := e.portfolio.Instrument(ticker)
		if !ins.IgnoreFromRegime && dec.Scores[ticker] < 0 {
			dec.Bad = append(dec.Bad, ticker)
		}
	}
	dec.GoodRegime = len(dec.Bad) == 0

	bucket := e.risk
	if !dec.GoodRegime {
		bucket = e.cash
	}
	dec.Best = e.argmax(bucket, dec.Scores)

	// A low-conviction winner is never held as the sole position;
	// re-resolve over the cash bucket instead.
	if ins, _ := e.portfolio.Instrument(dec.Best); ins != nil && ins.LowConviction {
		if dec.GoodRegime || e.denylistAppliesToCash {
			dec.Best = e.argmax(e.cash, dec.Scores)
		}
	}

	log.Debug().Str("date", date.Format("2006-01-02")).Bool("good_regime", dec.GoodRegime).
		Strs("bad", dec.Bad).Str("best", dec.Best).Interface("scores", dec.Scores).
		Msg("rotation decision")

	held, err := e.portfolio.ActivePosition()
	if err != nil {
		return dec, fmt.Errorf("on %v: %w", date.Format("2006-01-02"), err)
	}
	if held != nil && held.Ticker == dec.Best {
		return dec, nil
	}
	if held != nil {
		if err := e.portfolio.Sell(held, date); err != nil {
			return dec, err
		}
	}
	if _, err := e.portfolio.BuyAll(dec.Best, date); err != nil {
		return dec, err
	}
	dec.Rotated = true
	return dec, nil
}

// argmax picks the highest-scored ticker; exact ties go to the one listed
// first in the bucket.
func (e *RotationEngine) argmax(bucket []string, scores map[string]float64) string {
	best := bucket[0]
	for _, ticker := range bucket[1:] {
		if scores[ticker] > scores[best] {
			best = ticker
		}
	}
	return best
}
