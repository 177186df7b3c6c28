package vaa

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kodjac/vaa/models"
)

// Portfolio owns the cash balance and the instrument set of a run. Equity is
// cash plus the market value of all active positions. A buy that cannot be
// funded is rejected with no state change; cash never goes negative.
type Portfolio struct {
	Cash       float64
	Commission float64

	instruments map[string]*models.Instrument
	order       []string

	HighWaterMark float64
	MaxDrawdown   float64
	History       []models.Snapshot
}

// NewPortfolio creates a portfolio with initial cash and a fixed commission
// per leg. Instrument iteration keeps the given order.
func NewPortfolio(cash, commission float64, instruments []*models.Instrument) *Portfolio {
	p := &Portfolio{
		Cash:        cash,
		Commission:  commission,
		instruments: make(map[string]*models.Instrument, len(instruments)),
	}
	for _, ins := range instruments {
		p.instruments[ins.Ticker] = ins
		p.order = append(p.order, ins.Ticker)
	}
	return p
}

// Instrument resolves a ticker to its instrument.
func (p *Portfolio) Instrument(ticker string) (*models.Instrument, error) {
	ins, ok := p.instruments[ticker]
	if !ok {
		return nil, fmt.Errorf("%v: %w", ticker, models.ErrUnknownTicker)
	}
	return ins, nil
}

// Instruments returns the instruments in configuration order.
func (p *Portfolio) Instruments() []*models.Instrument {
	out := make([]*models.Instrument, 0, len(p.order))
	for _, ticker := range p.order {
		out = append(out, p.instruments[ticker])
	}
	return out
}

// Buy opens a position of amount units at the closing price of date. The
// cost is amount*close plus one commission; if it exceeds the available cash
// the buy is rejected and nothing changes.
func (p *Portfolio) Buy(ticker string, amount float64, date time.Time) (*models.Position, error) {
	ins, err := p.Instrument(ticker)
	if err != nil {
		return nil, err
	}
	price, err := ins.Series.CloseOn(date)
	if err != nil {
		return nil, err
	}
	cost := amount*price + p.Commission
	if cost > p.Cash {
		log.Warn().Str("ticker", ticker).Str("date", date.Format("2006-01-02")).
			Float64("cost", cost).Float64("cash", p.Cash).Msg("buy rejected")
		return nil, fmt.Errorf("%v on %v needs %.2f, have %.2f: %w",
			ticker, date.Format("2006-01-02"), cost, p.Cash, models.ErrInsufficientFunds)
	}
	pos, err := models.OpenPosition(ticker, amount, price, p.Commission, date)
	if err != nil {
		return nil, err
	}
	ins.Positions = append(ins.Positions, pos)
	p.Cash -= cost
	log.Debug().Str("ticker", ticker).Float64("amount", amount).Float64("price", price).
		Float64("cash", p.Cash).Msg("bought position")
	return pos, nil
}

// BuyAll opens the largest position the cash balance can fund after one
// commission, whole units only.
func (p *Portfolio) BuyAll(ticker string, date time.Time) (*models.Position, error) {
	ins, err := p.Instrument(ticker)
	if err != nil {
		return nil, err
	}
	price, err := ins.Series.CloseOn(date)
	if err != nil {
		return nil, err
	}
	amount := math.Floor((p.Cash - p.Commission) / price)
	if amount <= 0 {
		log.Warn().Str("ticker", ticker).Str("date", date.Format("2006-01-02")).
			Float64("cash", p.Cash).Msg("buy rejected, cash funds no whole unit")
		return nil, fmt.Errorf("%v on %v at %.2f with %.2f cash: %w",
			ticker, date.Format("2006-01-02"), price, p.Cash, models.ErrInsufficientFunds)
	}
	return p.Buy(ticker, amount, date)
}

// Sell closes a position at the closing price of date and credits the
// proceeds minus one commission.
func (p *Portfolio) Sell(pos *models.Position, date time.Time) error {
	ins, err := p.Instrument(pos.Ticker)
	if err != nil {
		return err
	}
	price, err := ins.Series.CloseOn(date)
	if err != nil {
		return err
	}
	if err := pos.Close(price, date); err != nil {
		return err
	}
	p.Cash += pos.Value(price) - p.Commission
	log.Debug().Str("ticker", pos.Ticker).Float64("price", price).
		Float64("profit", pos.Profit(price)).Float64("cash", p.Cash).Msg("sold position")
	return nil
}

// SellTicker closes the single active position of a ticker.
func (p *Portfolio) SellTicker(ticker string, date time.Time) error {
	ins, err := p.Instrument(ticker)
	if err != nil {
		return err
	}
	pos, err := ins.ActivePosition()
	if err != nil {
		return err
	}
	if pos == nil {
		return fmt.Errorf("%v on %v: %w", ticker, date.Format("2006-01-02"), models.ErrNoPosition)
	}
	return p.Sell(pos, date)
}

// ActivePosition returns the portfolio's single active position, nil when
// fully in cash. More than one active position violates the rotation
// strategy's invariant.
func (p *Portfolio) ActivePosition() (*models.Position, error) {
	var active *models.Position
	for _, ticker := range p.order {
		pos, err := p.instruments[ticker].ActivePosition()
		if err != nil {
			return nil, err
		}
		if pos == nil {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("%v and %v: %w", active.Ticker, pos.Ticker, models.ErrAmbiguousPosition)
		}
		active = pos
	}
	return active, nil
}

// Equity values the portfolio at date: cash plus active position marks.
func (p *Portfolio) Equity(date time.Time) (float64, error) {
	equity := p.Cash
	for _, ticker := range p.order {
		ins := p.instruments[ticker]
		pos, err := ins.ActivePosition()
		if err != nil {
			return 0, err
		}
		if pos == nil {
			continue
		}
		mark, err := ins.Series.CloseAsOf(date)
		if err != nil {
			return 0, err
		}
		equity += pos.Value(mark)
	}
	return equity, nil
}

// Snapshot records the state after all decisions of a step and updates the
// running high-water mark and max drawdown. The drawdown never decreases.
func (p *Portfolio) Snapshot(date time.Time) (models.Snapshot, error) {
	equity, err := p.Equity(date)
	if err != nil {
		return models.Snapshot{}, err
	}
	if equity > p.HighWaterMark {
		p.HighWaterMark = equity
	}
	if p.HighWaterMark > 0 {
		if dd := (p.HighWaterMark - equity) / p.HighWaterMark * 100; dd > p.MaxDrawdown {
			p.MaxDrawdown = dd
		}
	}

	snap := models.Snapshot{
		Timestamp: date.Format("2006-01-02"),
		Date:      date,
		Cash:      p.Cash,
		Equity:    equity,
		Drawdown:  p.MaxDrawdown,
		Marks:     make(map[string]float64),
	}
	for _, ticker := range p.order {
		ins := p.instruments[ticker]
		pos, err := ins.ActivePosition()
		if err != nil {
			return models.Snapshot{}, err
		}
		if pos == nil {
			continue
		}
		mark, err := ins.Series.CloseAsOf(date)
		if err != nil {
			return models.Snapshot{}, err
		}
		snap.Holding = ticker
		snap.MarketValue = pos.Value(mark)
		snap.Marks[ticker] = pos.Value(mark)
	}
	p.History = append(p.History, snap)
	return snap, nil
}
