// Package book implements the data structures backing one side of a
// limit order book: the price-level index, the per-level FIFO of
// resting orders, and the id-to-order locator. It has no notion of
// matching policy or time-in-force; that lives in package engine.
package book

// OrderID is a monotonically increasing identity minted by the owning
// facade. Zero is never assigned to a resting order and is used by
// callers to mean "no order".
type OrderID = uint64

// Side is which book an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// TimeInForce controls what happens to an order's unfilled residual.
type TimeInForce uint8

const (
	// GTC orders rest until cancelled or fully filled.
	GTC TimeInForce = iota
	// IOC orders fill what they can immediately; the residual is discarded.
	IOC
	// FOK orders fill entirely and immediately or are rejected outright.
	FOK
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "unknown"
	}
}
