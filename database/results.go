// Package database persists run results and closed trades to Postgres.
package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kodjac/vaa/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	run_id       text PRIMARY KEY,
	created_at   timestamptz NOT NULL,
	balance      double precision,
	cagr         double precision,
	max_drawdown double precision,
	best_trade   double precision,
	worst_trade  double precision,
	sharpe       double precision,
	sortino      double precision,
	months       integer,
	trades       integer,
	aborted      boolean
);
CREATE TABLE IF NOT EXISTS trades (
	run_id      text NOT NULL REFERENCES results(run_id),
	ticker      text NOT NULL,
	amount      double precision,
	open_date   timestamptz,
	open_price  double precision,
	close_date  timestamptz,
	close_price double precision,
	commission  double precision
);`

type resultRecord struct {
	RunID       string    `db:"run_id"`
	CreatedAt   time.Time `db:"created_at"`
	Balance     float64   `db:"balance"`
	CAGR        float64   `db:"cagr"`
	MaxDrawdown float64   `db:"max_drawdown"`
	BestTrade   float64   `db:"best_trade"`
	WorstTrade  float64   `db:"worst_trade"`
	Sharpe      float64   `db:"sharpe"`
	Sortino     float64   `db:"sortino"`
	Months      int       `db:"months"`
	Trades      int       `db:"trades"`
	Aborted     bool      `db:"aborted"`
}

type tradeRecord struct {
	RunID      string    `db:"run_id"`
	Ticker     string    `db:"ticker"`
	Amount     float64   `db:"amount"`
	OpenDate   time.Time `db:"open_date"`
	OpenPrice  float64   `db:"open_price"`
	CloseDate  time.Time `db:"close_date"`
	ClosePrice float64   `db:"close_price"`
	Commission float64   `db:"commission"`
}

// SaveResult writes one run and its closed trades. The tables are created on
// first use.
func SaveResult(dsn string, result models.Result, trades []*models.Position) error {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect results db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure results schema: %w", err)
	}

	var record resultRecord
	if err := copier.Copy(&record, &result); err != nil {
		return fmt.Errorf("map result: %w", err)
	}
	record.CreatedAt = time.Now().UTC()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO results
		(run_id, created_at, balance, cagr, max_drawdown, best_trade, worst_trade, sharpe, sortino, months, trades, aborted)
		VALUES (:run_id, :created_at, :balance, :cagr, :max_drawdown, :best_trade, :worst_trade, :sharpe, :sortino, :months, :trades, :aborted)`,
		record); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	for _, pos := range trades {
		var row tradeRecord
		if err := copier.Copy(&row, pos); err != nil {
			return fmt.Errorf("map trade: %w", err)
		}
		row.RunID = result.RunID
		if _, err := tx.NamedExec(`INSERT INTO trades
			(run_id, ticker, amount, open_date, open_price, close_date, close_price, commission)
			VALUES (:run_id, :ticker, :amount, :open_date, :open_price, :close_date, :close_price, :commission)`,
			row); err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}
	return tx.Commit()
}
