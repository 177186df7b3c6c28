package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

var (
	openDate  = time.Date(2020, 1, 27, 0, 0, 0, 0, time.UTC)
	closeDate = time.Date(2020, 2, 27, 0, 0, 0, 0, time.UTC)
)

func TestOpenPositionValidation(t *testing.T) {
	if _, err := OpenPosition("SPY", 0, 100, 6.5, openDate); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("got %v, expected ErrInvalidAmount for amount 0", err)
	}
	if _, err := OpenPosition("SPY", -5, 100, 6.5, openDate); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("got %v, expected ErrInvalidAmount for negative amount", err)
	}
}

func TestPositionLifecycle(t *testing.T) {
	pos, err := OpenPosition("SPY", 9, 100, 6.5, openDate)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.Active() {
		t.Error("new position should be active")
	}
	if err := pos.Close(110, closeDate); err != nil {
		t.Fatal(err)
	}
	if pos.Active() {
		t.Error("closed position should not be active")
	}
	if err := pos.Close(120, closeDate); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("got %v, expected ErrAlreadyClosed on second close", err)
	}
}

func TestPositionProfit(t *testing.T) {
	pos, _ := OpenPosition("SPY", 9, 100, 6.5, openDate)

	// Mark-to-market while open.
	if got := pos.Profit(110); got != 9*10-13 {
		t.Errorf("got unrealized profit %v, expected 77", got)
	}

	pos.Close(110, closeDate)
	if got := pos.Profit(0); got != 77 {
		t.Errorf("got realized profit %v, expected 77", got)
	}
	wantPct := 77.0 / 900 * 100
	if got := pos.ProfitPercent(0); math.Abs(got-wantPct) > 1e-9 {
		t.Errorf("got profit percent %v, expected %v", got, wantPct)
	}
}
