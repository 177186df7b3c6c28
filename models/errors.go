package models

import "errors"

// Recoverable conditions. The backtest loop reports these and keeps going.
var (
	// ErrInsufficientHistory means fewer month-end closes exist before the
	// evaluation date than the indicator lookback requires. Expected during
	// the warm-up period, fatal after it.
	ErrInsufficientHistory = errors.New("insufficient month-end history")

	// ErrInsufficientFunds means a buy was rejected because its cost
	// exceeded the available cash. No state is mutated.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Invariant violations. These abort the run.
var (
	ErrNoPosition        = errors.New("no active position")
	ErrAmbiguousPosition = errors.New("more than one active position")
	ErrAlreadyClosed     = errors.New("position already closed")
	ErrInvalidAmount     = errors.New("position amount must be positive")
	ErrUnknownTicker     = errors.New("unknown ticker")
	ErrNoBar             = errors.New("no bar for date")
)
