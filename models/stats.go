package models

// Stats aggregates the closed-position history of a run.
type Stats struct {
	TotalPositions        int
	WinningPositions      int
	LosingPositions       int
	WinRate               float64
	AveragePositionProfit float64
	AverageWinningProfit  float64
	AverageLosingLoss     float64
	RiskReward            float64
	WinsNeeded            float64
	AverageHoldMonths     float64
	ProfitByTicker        map[string]float64
}
