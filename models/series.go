package models

import (
	"fmt"
	"sort"
	"time"
)

// PriceSeries is an immutable, date-indexed daily price history for one
// ticker. Month-end trading dates are detected once at construction: a date
// is a month-end when the next bar's date falls in a different calendar
// month, and the final date of the series always counts as one so a run can
// liquidate on it.
type PriceSeries struct {
	ticker         string
	bars           []Bar
	byDate         map[time.Time]int
	monthEnds      []time.Time
	monthEndIndex  map[time.Time]int
	monthEndCloses []float64
}

// NewPriceSeries builds a series from date-sorted daily bars. Bars must be
// strictly increasing by date with no duplicates.
func NewPriceSeries(ticker string, bars []Bar) (*PriceSeries, error) {
	if ticker == "" {
		return nil, fmt.Errorf("price series needs a ticker")
	}
	s := &PriceSeries{
		ticker:        ticker,
		bars:          bars,
		byDate:        make(map[time.Time]int, len(bars)),
		monthEndIndex: make(map[time.Time]int),
	}
	var prev time.Time
	for i, bar := range bars {
		date := bar.Date()
		if i > 0 && !date.After(prev) {
			return nil, fmt.Errorf("%v: bars out of order at %v", ticker, date.Format("2006-01-02"))
		}
		s.byDate[date] = i
		prev = date
	}
	for i, bar := range bars {
		date := bar.Date()
		last := i == len(bars)-1
		if last || bars[i+1].Date().Month() != date.Month() {
			s.monthEndIndex[date] = len(s.monthEnds)
			s.monthEnds = append(s.monthEnds, date)
			s.monthEndCloses = append(s.monthEndCloses, bar.Close)
		}
	}
	return s, nil
}

func (s *PriceSeries) Ticker() string { return s.ticker }

func (s *PriceSeries) Len() int { return len(s.bars) }

// FirstDate returns the date of the earliest bar.
func (s *PriceSeries) FirstDate() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[0].Date()
}

// LastDate returns the date of the latest bar.
func (s *PriceSeries) LastDate() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[len(s.bars)-1].Date()
}

// MonthEndDates returns the cached month-end trading dates in order.
func (s *PriceSeries) MonthEndDates() []time.Time { return s.monthEnds }

// MonthEndCloses returns the closing prices at each month-end date,
// oldest first, aligned with MonthEndDates.
func (s *PriceSeries) MonthEndCloses() []float64 { return s.monthEndCloses }

// MonthEndPosition returns the index of date within the month-end dates.
func (s *PriceSeries) MonthEndPosition(date time.Time) (int, bool) {
	i, ok := s.monthEndIndex[date]
	return i, ok
}

// IsMonthEnd reports whether date is a month-end trading date of the series.
func (s *PriceSeries) IsMonthEnd(date time.Time) bool {
	_, ok := s.monthEndIndex[date]
	return ok
}

// CloseOn returns the closing price for an exact trading date.
func (s *PriceSeries) CloseOn(date time.Time) (float64, error) {
	i, ok := s.byDate[date]
	if !ok {
		return 0, fmt.Errorf("%v on %v: %w", s.ticker, date.Format("2006-01-02"), ErrNoBar)
	}
	return s.bars[i].Close, nil
}

// CloseAsOf returns the closing price of the most recent bar at or before
// date. Used for mark-to-market when a date is not a trading day for this
// series.
func (s *PriceSeries) CloseAsOf(date time.Time) (float64, error) {
	if i, ok := s.byDate[date]; ok {
		return s.bars[i].Close, nil
	}
	n := sort.Search(len(s.bars), func(i int) bool { return s.bars[i].Date().After(date) })
	if n == 0 {
		return 0, fmt.Errorf("%v as of %v: %w", s.ticker, date.Format("2006-01-02"), ErrNoBar)
	}
	return s.bars[n-1].Close, nil
}
