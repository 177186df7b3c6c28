package models

import "fmt"

// Bucket tags an instrument's role in the rotation. Membership is assigned
// once at configuration time instead of re-scanning ticker lists on every
// evaluation.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketRisk
	BucketCash
)

func (b Bucket) String() string {
	switch b {
	case BucketRisk:
		return "risk"
	case BucketCash:
		return "cash"
	default:
		return "none"
	}
}

// Instrument wraps a price series with an identity and owns the position
// history for that ticker. Under the rotation strategy at most one position
// is active at a time.
type Instrument struct {
	Ticker string
	Series *PriceSeries
	Bucket Bucket

	// IgnoreFromRegime keeps the score in the bucket ranking but out of the
	// any-negative-means-bad regime gate.
	IgnoreFromRegime bool

	// LowConviction marks a ticker that should never end up as the sole
	// holding; the engine re-resolves over the cash bucket instead.
	LowConviction bool

	Positions []*Position
}

func NewInstrument(series *PriceSeries, bucket Bucket) *Instrument {
	return &Instrument{
		Ticker: series.Ticker(),
		Series: series,
		Bucket: bucket,
	}
}

// ActivePosition returns the single active position, nil if there is none,
// or ErrAmbiguousPosition if the single-position invariant was violated.
func (ins *Instrument) ActivePosition() (*Position, error) {
	var active *Position
	for _, p := range ins.Positions {
		if !p.Active() {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("%v: %w", ins.Ticker, ErrAmbiguousPosition)
		}
		active = p
	}
	return active, nil
}

// ClosedPositions returns the realized trade history, oldest first.
func (ins *Instrument) ClosedPositions() []*Position {
	closed := make([]*Position, 0, len(ins.Positions))
	for _, p := range ins.Positions {
		if !p.Active() {
			closed = append(closed, p)
		}
	}
	return closed
}

// TotalProfit sums the realized profit of all closed positions.
func (ins *Instrument) TotalProfit() float64 {
	var total float64
	for _, p := range ins.ClosedPositions() {
		total += p.Profit(0)
	}
	return total
}
