package models

// The Result struct contains the scalar outcome of a backtest run.
type Result struct {
	RunID       string  // A UUID identifying this run
	Balance     float64 // Ending cash after the final liquidation
	CAGR        float64 // Compound annual growth rate (in percent)
	MaxDrawdown float64 // Worst peak-to-trough equity decline (in percent)
	BestTrade   float64 // Best closed trade profit (in percent)
	WorstTrade  float64 // Worst closed trade profit (in percent)
	Sharpe      float64 // Sharpe ratio of monthly returns, annualized
	Sortino     float64 // Sortino ratio of monthly returns, annualized
	Months      int     // Number of simulated monthly steps
	Trades      int     // Number of closed positions
	Aborted     bool    // True when the run stopped before the last date
}
