// Technical analysis helpers over month-end close series using
// github.com/markcheno/go-talib
package vaa

import (
	talib "github.com/markcheno/go-talib"
)

// GetRoc calculates the rate of change of the month-end closes for a
// lookback in months. Values are in percent.
func GetRoc(closes []float64, months int) []float64 {
	return talib.Roc(closes, months)
}

// GetMom measures the absolute price change of the month-end closes over a
// lookback in months.
func GetMom(closes []float64, months int) []float64 {
	return talib.Mom(closes, months)
}

func last(values []float64) float64 {
	return values[len(values)-1]
}
