package models

import "time"

// Bar is a single daily OHLCV record. Timestamp is unix milliseconds UTC.
type Bar struct {
	Timestamp int64   `csv:"timestamp" db:"timestamp"`
	Open      float64 `csv:"open" db:"open"`
	High      float64 `csv:"high" db:"high"`
	Low       float64 `csv:"low" db:"low"`
	Close     float64 `csv:"close" db:"close"`
	Volume    float64 `csv:"volume" db:"volume"`
}

// Time returns the bar timestamp as a UTC time.
func (b Bar) Time() time.Time {
	return time.Unix(0, b.Timestamp*int64(time.Millisecond)).UTC()
}

// Date returns the bar timestamp truncated to midnight UTC.
func (b Bar) Date() time.Time {
	t := b.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
