package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals into a single SQLite database so runs can be queried
// after the fact (see the query helpers and the journal CLI command).
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(r FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, time, token, instrument, side, quantity, price, notional, cash_delta, position_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.FillID, r.Time, r.Token, r.Instrument, r.Side,
		r.Quantity, r.Price, r.Notional, r.CashDelta, r.PositionAfter,
	)
	return err
}

func (j *SQLite) RecordTrade(r TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, token, instrument, side, quantity, entry_time, exit_time, entry_price, exit_price, realized_pl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TradeID, r.Token, r.Instrument, r.Side, r.Quantity,
		r.EntryTime, r.ExitTime, r.EntryPrice, r.ExitPrice, r.RealizedPL,
	)
	return err
}

func (j *SQLite) RecordEquity(r EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, equity, realized, margin_used, peak_margin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.Time, r.Cash, r.Equity, r.Realized, r.MarginUsed, r.PeakMargin,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
