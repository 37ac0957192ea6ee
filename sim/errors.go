package sim

import "errors"

var (
	// ErrNoPriceData means an order or valuation referenced a token that
	// has no price at the current timestamp. This is a configuration
	// problem (wrong instrument discovery), not a recoverable condition.
	ErrNoPriceData = errors.New("no price data for token")

	// ErrTradingHalted is returned by PlaceOrder after the risk monitor
	// has halted the run. It is a graceful no-op signal, not a failure:
	// strategies that keep firing orders after a breach degrade cleanly.
	ErrTradingHalted = errors.New("trading halted")

	// ErrInvalidQuantity rejects non-positive order quantities. Silent
	// drops would corrupt PnL accounting, so this always surfaces.
	ErrInvalidQuantity = errors.New("order quantity must be positive")
)
