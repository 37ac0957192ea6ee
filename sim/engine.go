package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/yanun0323/logs"

	"github.com/darshanshenoy/optsim/internal/id"
	"github.com/darshanshenoy/optsim/journal"
	"github.com/darshanshenoy/optsim/market"
)

// DefaultMarginRate is the fraction of notional reserved as collateral
// when the configuration does not say otherwise.
const DefaultMarginRate = 0.15

// Config is the engine's construction-time configuration. Margin rate is
// an explicit per-engine value, never a mutable global, so parameter
// sweeps can run engines with independent settings.
type Config struct {
	InitialCash  float64
	MarginRate   float64 // fraction of notional reserved as margin
	MaxDailyLoss float64 // 0 disables the risk monitor breach path
}

func (c Config) withDefaults() Config {
	if c.MarginRate <= 0 {
		c.MarginRate = DefaultMarginRate
	}
	return c
}

// Broker is the engine surface exposed to strategies. It is a strict
// subset of Engine: orders in, read-only state out.
type Broker interface {
	PlaceOrder(tok market.Token, side Side, lots int) (Fill, error)
	SquareOffAll() error
	MarketPrice(tok market.Token) (float64, error)
	Position(tok market.Token) int
	OpenPosition(tok market.Token) (Position, bool)
	Cash() float64
}

// Engine fills market orders against the price book and keeps the ledger
// consistent. The whole simulation is single-threaded by construction,
// so the engine carries no locks.
type Engine struct {
	cfg       Config
	contracts *market.ContractTable
	book      *market.Book
	ledger    *Ledger
	journal   journal.Journal
}

func NewEngine(cfg Config, contracts *market.ContractTable, j journal.Journal) *Engine {
	if j == nil {
		j = journal.Nop{}
	}
	if contracts == nil {
		contracts = market.NewContractTable(nil)
	}
	return &Engine{
		cfg:       cfg.withDefaults(),
		contracts: contracts,
		book:      market.NewBook(),
		ledger:    newLedger(cfg.InitialCash),
		journal:   j,
	}
}

// ApplyBar feeds one bar into the price book. The runner applies every
// bar of a timestamp before MarkBar, so all of that minute's prices are
// visible before the risk monitor or strategy run.
func (e *Engine) ApplyBar(b market.Bar) {
	e.book.Apply(b)
}

// MarkBar revalues margin at the new prices and journals an equity
// snapshot for the timestamp.
func (e *Engine) MarkBar(ts time.Time) error {
	if err := e.recomputeMargin(); err != nil {
		return err
	}
	return e.journal.RecordEquity(journal.EquitySnapshot{
		Time:       ts,
		Cash:       e.ledger.cash,
		Equity:     e.Equity(),
		Realized:   e.ledger.realized,
		MarginUsed: e.ledger.marginUsed,
		PeakMargin: e.ledger.peakMargin,
	})
}

// PlaceOrder fills a market order for the given number of lots at the
// last known price. Orders are sized in lots; the contract's lot size
// converts to units (lot size 1 for unknown tokens). After a risk halt
// every order is rejected with ErrTradingHalted and logged as skipped.
func (e *Engine) PlaceOrder(tok market.Token, side Side, lots int) (Fill, error) {
	if e.ledger.halted {
		logs.Infof("order skipped, trading halted: %s %d lot %s", side, lots, e.contracts.Describe(tok))
		return Fill{}, ErrTradingHalted
	}
	if lots <= 0 {
		return Fill{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, lots)
	}
	return e.fill(tok, side, lots*e.contracts.LotSize(tok))
}

// SquareOffAll closes every open position with an offsetting order at the
// current price. It is the close-only path: the halted flag does not
// apply, which is what lets the risk monitor liquidate after setting the
// flag. Calling it when flat is a no-op.
func (e *Engine) SquareOffAll() error {
	for _, tok := range e.ledger.openTokens() {
		pos := e.ledger.positions[tok]
		if pos.Quantity == 0 {
			continue
		}
		units := abs(pos.Quantity)
		side := Sell
		if pos.Quantity < 0 {
			side = Buy
		}
		if _, err := e.fill(tok, side, units); err != nil {
			return fmt.Errorf("square off %s: %w", e.contracts.Describe(tok), err)
		}
	}
	return nil
}

// fill executes units at the current price and applies every ledger
// effect: cash, position merge, realization, fill log, margin.
func (e *Engine) fill(tok market.Token, side Side, units int) (Fill, error) {
	if units <= 0 {
		return Fill{}, fmt.Errorf("%w: got %d units", ErrInvalidQuantity, units)
	}
	price, ok := e.book.Last(tok)
	if !ok {
		return Fill{}, fmt.Errorf("%s: %w", e.contracts.Describe(tok), ErrNoPriceData)
	}

	now := e.book.Now()
	notional := price * float64(units)
	cashDelta := -float64(side) * notional // buys spend cash, sells receive it
	e.ledger.cash += cashDelta

	signed := int(side) * units
	e.applyToPosition(tok, signed, price, now)

	fill := Fill{
		ID:            id.New(),
		Time:          now,
		Token:         tok,
		Side:          side,
		Quantity:      units,
		Price:         price,
		Notional:      notional,
		CashDelta:     cashDelta,
		PositionAfter: e.ledger.position(tok),
	}
	e.ledger.fills = append(e.ledger.fills, fill)
	if err := e.journal.RecordFill(fill.record(e.contracts.Describe(tok))); err != nil {
		return Fill{}, err
	}
	if err := e.recomputeMargin(); err != nil {
		return Fill{}, err
	}
	return fill, nil
}

// applyToPosition merges a signed fill into the token's position:
// weighted-average on adds, proportional realization on reduces, and a
// realize-then-reenter split when the fill flips the direction.
func (e *Engine) applyToPosition(tok market.Token, signed int, price float64, now time.Time) {
	pos, ok := e.ledger.positions[tok]
	if !ok || pos.Quantity == 0 {
		e.ledger.positions[tok] = &Position{
			Token:     tok,
			Quantity:  signed,
			AvgPrice:  price,
			Peak:      abs(signed),
			EntryTime: now,
		}
		return
	}

	if sgn(pos.Quantity) == sgn(signed) {
		total := pos.Quantity + signed
		pos.AvgPrice = (pos.AvgPrice*float64(abs(pos.Quantity)) + price*float64(abs(signed))) / float64(abs(total))
		pos.Quantity = total
		if abs(total) > pos.Peak {
			pos.Peak = abs(total)
		}
		return
	}

	closed := abs(signed)
	if abs(pos.Quantity) < closed {
		closed = abs(pos.Quantity)
	}
	pnl := (price - pos.AvgPrice) * float64(closed) * float64(sgn(pos.Quantity))
	pos.Realized += pnl
	e.ledger.realized += pnl

	remainder := pos.Quantity + signed
	switch {
	case remainder == 0:
		e.recordRoundTrip(pos, price, now)
		delete(e.ledger.positions, tok)
	case sgn(remainder) == sgn(pos.Quantity):
		// Partial close: the remainder keeps its average entry price.
		pos.Quantity = remainder
	default:
		// Flip: the old position is done; the surplus opens a fresh
		// position at the fill price.
		e.recordRoundTrip(pos, price, now)
		e.ledger.positions[tok] = &Position{
			Token:     tok,
			Quantity:  remainder,
			AvgPrice:  price,
			Peak:      abs(remainder),
			EntryTime: now,
		}
	}
}

func (e *Engine) recordRoundTrip(pos *Position, exitPrice float64, exitTime time.Time) {
	rec := journal.TradeRecord{
		TradeID:    id.New(),
		Token:      int64(pos.Token),
		Instrument: e.contracts.Describe(pos.Token),
		Side:       pos.Side(),
		Quantity:   pos.Peak,
		EntryTime:  pos.EntryTime,
		ExitTime:   exitTime,
		EntryPrice: pos.AvgPrice,
		ExitPrice:  exitPrice,
		RealizedPL: pos.Realized,
	}
	e.ledger.trades = append(e.ledger.trades, rec)
	if err := e.journal.RecordTrade(rec); err != nil {
		logs.Errorf("journal round trip %s: %v", rec.TradeID, err)
	}
}

// recomputeMargin revalues margin across open positions. Margin is a
// haircut on gross notional at the last price; it can only be
// non-negative, and a negative result means the accounting is corrupt,
// which must abort the run rather than produce a misleading report.
func (e *Engine) recomputeMargin() error {
	used := 0.0
	for tok, pos := range e.ledger.positions {
		last, ok := e.book.Last(tok)
		if !ok {
			return fmt.Errorf("margin revalue %s: %w", e.contracts.Describe(tok), ErrNoPriceData)
		}
		used += math.Abs(float64(pos.Quantity)) * last * e.cfg.MarginRate
	}
	if used < 0 {
		return fmt.Errorf("negative margin %.2f: ledger invariant violated", used)
	}
	e.ledger.marginUsed = used
	if used > e.ledger.peakMargin {
		e.ledger.peakMargin = used
	}
	return nil
}

// halt stops all further entries. Only the risk monitor calls this.
func (e *Engine) halt() {
	e.ledger.halted = true
}

// ----- read-only accessors -----

// MarketPrice returns the last traded price for the token.
func (e *Engine) MarketPrice(tok market.Token) (float64, error) {
	price, ok := e.book.Last(tok)
	if !ok {
		return 0, fmt.Errorf("%s: %w", e.contracts.Describe(tok), ErrNoPriceData)
	}
	return price, nil
}

// Position returns the signed unit quantity held in the token.
func (e *Engine) Position(tok market.Token) int {
	return e.ledger.position(tok)
}

// OpenPosition returns a copy of the live position for the token.
func (e *Engine) OpenPosition(tok market.Token) (Position, bool) {
	if p, ok := e.ledger.positions[tok]; ok {
		return *p, true
	}
	return Position{}, false
}

func (e *Engine) Cash() float64        { return e.ledger.cash }
func (e *Engine) InitialCash() float64 { return e.ledger.initialCash }
func (e *Engine) Realized() float64    { return e.ledger.realized }
func (e *Engine) MarginUsed() float64  { return e.ledger.marginUsed }
func (e *Engine) PeakMargin() float64  { return e.ledger.peakMargin }
func (e *Engine) Halted() bool         { return e.ledger.halted }

// Unrealized is the mark-to-market PnL summed over open positions.
func (e *Engine) Unrealized() float64 {
	total := 0.0
	for tok, pos := range e.ledger.positions {
		if last, ok := e.book.Last(tok); ok {
			total += pos.Unrealized(last)
		}
	}
	return total
}

// TotalPnL is realized plus mark-to-market unrealized PnL. This is the
// number the risk monitor tests against the daily loss ceiling.
func (e *Engine) TotalPnL() float64 {
	return e.ledger.realized + e.Unrealized()
}

// Equity values the account as cash plus the market value of open
// positions, so Equity == InitialCash + TotalPnL at all times.
func (e *Engine) Equity() float64 {
	total := e.ledger.cash
	for tok, pos := range e.ledger.positions {
		if last, ok := e.book.Last(tok); ok {
			total += float64(pos.Quantity) * last
		}
	}
	return total
}

// Fills returns a copy of the chronological fill log.
func (e *Engine) Fills() []Fill {
	out := make([]Fill, len(e.ledger.fills))
	copy(out, e.ledger.fills)
	return out
}

// Trades returns a copy of the completed round trips.
func (e *Engine) Trades() []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(e.ledger.trades))
	copy(out, e.ledger.trades)
	return out
}
