package models

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Position is a single buy/sell lifecycle for one instrument. A fixed
// commission is charged once per leg, so a round trip costs 2x commission.
type Position struct {
	Ticker     string    `db:"ticker"`
	Amount     float64   `db:"amount"`
	OpenDate   time.Time `db:"open_date"`
	OpenPrice  float64   `db:"open_price"`
	CloseDate  time.Time `db:"close_date"`
	ClosePrice float64   `db:"close_price"`
	Commission float64   `db:"commission"`
}

// OpenPosition creates a new active position.
func OpenPosition(ticker string, amount, price, commission float64, date time.Time) (*Position, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%v on %v: amount %v: %w", ticker, date.Format("2006-01-02"), amount, ErrInvalidAmount)
	}
	return &Position{
		Ticker:     ticker,
		Amount:     amount,
		OpenDate:   date,
		OpenPrice:  price,
		Commission: commission,
	}, nil
}

// Active reports whether the position has not been closed yet.
func (p *Position) Active() bool { return p.CloseDate.IsZero() }

// Close sets the close date and price exactly once.
func (p *Position) Close(price float64, date time.Time) error {
	if !p.Active() {
		return fmt.Errorf("%v on %v: %w", p.Ticker, date.Format("2006-01-02"), ErrAlreadyClosed)
	}
	p.CloseDate = date
	p.ClosePrice = price
	return nil
}

// Value is the market value of the position at a mark price.
func (p *Position) Value(mark float64) float64 { return p.Amount * mark }

// Profit is the realized profit if the position is closed, otherwise the
// mark-to-market profit at the given price. Both sides net out one
// commission per leg.
func (p *Position) Profit(mark float64) float64 {
	exit := p.ClosePrice
	if p.Active() {
		log.Warn().Str("ticker", p.Ticker).Msg("position still open, profit is unrealized")
		exit = mark
	}
	return p.Amount*(exit-p.OpenPrice) - 2*p.Commission
}

// ProfitPercent is Profit relative to the position cost basis, in percent.
func (p *Position) ProfitPercent(mark float64) float64 {
	basis := p.Amount * p.OpenPrice
	if basis == 0 {
		return 0
	}
	return p.Profit(mark) / basis * 100
}
