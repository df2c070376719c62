// Package engine implements the matching policy layer described by
// the order book: validation, time-in-force and post-only handling,
// the price-time-priority cross algorithm, and the public facade
// through which commands are submitted.
//
// The facade is single-threaded by contract: every mutating call runs
// to completion before the next begins, and there are no suspension
// points inside one. Callers that need concurrent access must
// serialize it themselves (see package transport for the external
// exclusive-access wrapper); OrderBook itself never spawns a worker,
// yields, or performs I/O.
package engine

import (
	"fmt"
	"strings"

	"github.com/fasenderos/orderbook-go/internal/book"
)

// LimitOrderOptions configures a call to Limit. TimeInForce defaults
// to GTC (its zero value) when left unset.
type LimitOrderOptions struct {
	Side        book.Side
	Quantity    uint64
	Price       uint64
	TimeInForce book.TimeInForce
	PostOnly    bool
}

// MarketOrderOptions configures a call to Market.
type MarketOrderOptions struct {
	Side     book.Side
	Quantity uint64
}

// OrderBook is the public entry point for one instrument: it owns
// both side books, the order index, and the id/sequence counters, and
// exposes the four mutating operations plus read-only queries.
type OrderBook struct {
	symbol string
	book   *book.Book

	nextID  book.OrderID
	nextSeq uint64

	journaling  bool
	onOperation func(OpLog)
	opSeq       uint64
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol string, opts ...Option) *OrderBook {
	ob := &OrderBook{
		symbol: symbol,
		book:   book.New(),
	}
	for _, opt := range opts {
		opt(ob)
	}
	return ob
}

// Symbol returns the instrument this book was created for.
func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

func (ob *OrderBook) nextOrderID() book.OrderID {
	ob.nextID++
	return ob.nextID
}

func (ob *OrderBook) nextSequence() uint64 {
	ob.nextSeq++
	return ob.nextSeq
}

func (ob *OrderBook) record(kind OpKind, result Result) {
	if !ob.journaling || ob.onOperation == nil {
		return
	}
	ob.opSeq++
	ob.onOperation(OpLog{Seq: ob.opSeq, Kind: kind, Result: result})
}

// Limit submits a limit order: validated, checked against post-only
// and FOK preconditions, matched against the opposite side under
// price-time priority, and — for any GTC residual — rested at the
// back of its level's FIFO.
//
// Rejections never mutate the book: every precondition is checked
// before any order id is minted or any level is touched.
func (ob *OrderBook) Limit(opts LimitOrderOptions) Result {
	if opts.Quantity == 0 {
		return rejected(RejectInvalidQuantity)
	}
	if opts.Price == 0 {
		return rejected(RejectInvalidPrice)
	}
	if opts.PostOnly && opts.TimeInForce != book.GTC {
		return rejected(RejectInvalidTIF)
	}
	if opts.PostOnly && ob.wouldCross(opts.Side, opts.Price) {
		return rejected(RejectWouldCross)
	}
	if opts.TimeInForce == book.FOK && !ob.fillable(opts.Side, opts.Quantity, opts.Price) {
		return rejected(RejectInsufficientLiquidity)
	}

	order := &book.Order{
		ID:                ob.nextOrderID(),
		Side:              opts.Side,
		Price:             opts.Price,
		OriginalQuantity:  opts.Quantity,
		RemainingQuantity: opts.Quantity,
		TimeInForce:       opts.TimeInForce,
		PostOnly:          opts.PostOnly,
	}

	price := opts.Price
	trades := ob.crossAgainst(order, &price)
	filled := opts.Quantity - order.RemainingQuantity

	var status Status
	switch {
	case order.RemainingQuantity == 0:
		status = StatusFullyFilled
	case opts.TimeInForce == book.GTC:
		order.Sequence = ob.nextSequence()
		ob.book.Rest(order)
		if filled > 0 {
			status = StatusPartiallyFilledResting
		} else {
			status = StatusRested
		}
	case opts.TimeInForce == book.IOC:
		if filled > 0 {
			status = StatusPartiallyFilledCancelled
		} else {
			status = StatusCancelled
		}
	default: // book.FOK: unreachable, the precheck above guarantees a full fill.
		status = StatusFullyFilled
	}

	result := Result{
		ID:                order.ID,
		Status:            status,
		Trades:            trades,
		QuantityFilled:    filled,
		QuantityRemaining: order.RemainingQuantity,
	}
	ob.record(OpLimit, result)
	return result
}

// Market submits a market order: an IOC cross with no price bound.
func (ob *OrderBook) Market(opts MarketOrderOptions) Result {
	if opts.Quantity == 0 {
		return rejected(RejectInvalidQuantity)
	}

	order := &book.Order{
		ID:                ob.nextOrderID(),
		Side:              opts.Side,
		OriginalQuantity:  opts.Quantity,
		RemainingQuantity: opts.Quantity,
		TimeInForce:       book.IOC,
	}

	trades := ob.crossAgainst(order, nil)
	filled := opts.Quantity - order.RemainingQuantity

	var status Status
	switch {
	case order.RemainingQuantity == 0:
		status = StatusFullyFilled
	case filled > 0:
		status = StatusPartiallyFilledCancelled
	default:
		status = StatusCancelled
	}

	result := Result{
		ID:                order.ID,
		Status:            status,
		Trades:            trades,
		QuantityFilled:    filled,
		QuantityRemaining: order.RemainingQuantity,
	}
	ob.record(OpMarket, result)
	return result
}

// Modify changes a resting order's price and/or quantity. Only resting
// orders can be modified; IOC/FOK orders never rest, so any id Modify
// finds is a GTC order.
//
// A modify that leaves the price unchanged — whether newPrice is nil
// or is simply equal to the order's current price — decreases in
// place (keeping the id and time priority) or increases via
// cancel+resubmit. Any modify that actually changes the price is
// always a cancel followed by a fresh Limit submission at
// GTC/non-post-only: the order gets a new id and goes to the back of
// its new level's FIFO, the same way the original implementation
// handles it: a price-changing (or growing) modify never keeps the
// old id.
func (ob *OrderBook) Modify(id book.OrderID, newPrice, newQuantity *uint64) Result {
	existing, ok := ob.book.Lookup(id)
	if !ok {
		return rejected(RejectNotFound)
	}
	if newPrice == nil && newQuantity == nil {
		return rejected(RejectInvalidQuantity)
	}
	if newPrice != nil && *newPrice == 0 {
		return rejected(RejectInvalidPrice)
	}
	if newQuantity != nil && *newQuantity == 0 {
		return rejected(RejectInvalidQuantity)
	}

	if newPrice == nil || *newPrice == existing.Price {
		qty := existing.RemainingQuantity
		if newQuantity != nil {
			qty = *newQuantity
		}
		switch {
		case qty == existing.RemainingQuantity:
			// No-op: same id, same priority, nothing to record beyond
			// the current resting state.
			return Result{
				ID:                id,
				Status:            StatusRested,
				QuantityRemaining: existing.RemainingQuantity,
			}
		case qty < existing.RemainingQuantity:
			ob.book.ShrinkInPlace(id, qty)
			result := Result{
				ID:                id,
				Status:            StatusRested,
				QuantityRemaining: qty,
			}
			ob.record(OpModify, result)
			return result
		default: // qty > existing.RemainingQuantity: loses priority.
			side, price, tif, postOnly := existing.Side, existing.Price, existing.TimeInForce, existing.PostOnly
			ob.book.Cancel(id)
			result := ob.Limit(LimitOrderOptions{
				Side:        side,
				Quantity:    qty,
				Price:       price,
				TimeInForce: tif,
				PostOnly:    postOnly,
			})
			ob.record(OpModify, result)
			return result
		}
	}

	// The price actually changes: replace the order, per the
	// open-question decision above, regardless of whether quantity
	// also changed.
	side, tif := existing.Side, existing.TimeInForce
	qty := existing.RemainingQuantity
	if newQuantity != nil {
		qty = *newQuantity
	}
	ob.book.Cancel(id)
	result := ob.Limit(LimitOrderOptions{
		Side:        side,
		Quantity:    qty,
		Price:       *newPrice,
		TimeInForce: tif,
		PostOnly:    false,
	})
	ob.record(OpModify, result)
	return result
}

// Cancel removes a resting order and returns its remaining quantity.
func (ob *OrderBook) Cancel(id book.OrderID) Result {
	o, ok := ob.book.Cancel(id)
	if !ok {
		return rejected(RejectNotFound)
	}
	result := Result{
		ID:                id,
		Status:            StatusCancelled,
		QuantityRemaining: o.RemainingQuantity,
	}
	ob.record(OpCancel, result)
	return result
}

// BestBid returns the top-of-book bid, if any.
func (ob *OrderBook) BestBid() (Quote, bool) {
	return ob.best(book.Buy)
}

// BestAsk returns the top-of-book ask, if any.
func (ob *OrderBook) BestAsk() (Quote, bool) {
	return ob.best(book.Sell)
}

func (ob *OrderBook) best(side book.Side) (Quote, bool) {
	lvl, ok := ob.book.Ladder(side).Best()
	if !ok {
		return Quote{}, false
	}
	return Quote{Price: lvl.Price, Volume: lvl.Volume}, true
}

// MidPrice is the average of the best bid and best ask, or absent if
// either side is empty.
func (ob *OrderBook) MidPrice() (uint64, bool) {
	bid, ok := ob.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := ob.BestAsk()
	if !ok {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2, true
}

// Spread is best ask minus best bid, or absent if either side is
// empty.
func (ob *OrderBook) Spread() (uint64, bool) {
	bid, ok := ob.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := ob.BestAsk()
	if !ok {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// Depth returns up to n price levels for side, best to worst. n <= 0
// means every level.
func (ob *OrderBook) Depth(side book.Side, n int) []Quote {
	levels := ob.book.Ladder(side).Levels(n)
	out := make([]Quote, len(levels))
	for i, lvl := range levels {
		out[i] = Quote{Price: lvl.Price, Volume: lvl.Volume}
	}
	return out
}

// Snapshot returns the full resting state of both sides, best to
// worst, for diagnostics.
func (ob *OrderBook) Snapshot() Snapshot {
	return Snapshot{
		Bids: ob.Depth(book.Buy, 0),
		Asks: ob.Depth(book.Sell, 0),
	}
}

// String renders the book for human inspection: asks top-down
// (highest price first), a rule, then bids top-down (highest price
// first). This is diagnostic output only, not a stable interface.
func (ob *OrderBook) String() string {
	var sb strings.Builder
	asks := ob.book.Asks.Levels(0)
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%d -> %d\n", asks[i].Price, asks[i].Volume)
	}
	sb.WriteString(strings.Repeat("-", 36) + "\n")
	for _, lvl := range ob.book.Bids.Levels(0) {
		fmt.Fprintf(&sb, "%d -> %d\n", lvl.Price, lvl.Volume)
	}
	return sb.String()
}

// crossAgainst walks the opposite side from best, consuming resting
// orders in FIFO order while the level crosses taker's price bound
// (nil means unbounded, used by Market). It mutates taker.RemainingQuantity
// in place and returns the trades produced.
func (ob *OrderBook) crossAgainst(taker *book.Order, priceBound *uint64) []Trade {
	var trades []Trade
	opposite := ob.book.Opposite(taker.Side)

	for taker.RemainingQuantity > 0 {
		lvl, ok := opposite.Best()
		if !ok {
			break
		}
		if priceBound != nil {
			if taker.Side == book.Buy && lvl.Price > *priceBound {
				break
			}
			if taker.Side == book.Sell && lvl.Price < *priceBound {
				break
			}
		}

		for taker.RemainingQuantity > 0 {
			maker := lvl.Front()
			if maker == nil {
				break
			}
			qty := min(taker.RemainingQuantity, maker.RemainingQuantity)
			taker.RemainingQuantity -= qty
			price := lvl.Price
			ob.book.FillMaker(maker, qty)
			trades = append(trades, Trade{
				MakerID:  maker.ID,
				TakerID:  taker.ID,
				Price:    price,
				Quantity: qty,
			})
			if lvl.Len() == 0 {
				break
			}
		}
	}
	return trades
}

// fillable reports whether at least quantity can be filled at or
// better than price on the opposite side, without mutating anything.
// It walks levels cheapest-to-cross first using their cached volume,
// so it costs O(levels touched), not O(orders touched).
func (ob *OrderBook) fillable(side book.Side, quantity, price uint64) bool {
	var cumulative uint64
	for _, lvl := range ob.book.Opposite(side).Levels(0) {
		if side == book.Buy && lvl.Price > price {
			break
		}
		if side == book.Sell && lvl.Price < price {
			break
		}
		cumulative = book.SaturatingAdd(cumulative, lvl.Volume)
		if cumulative >= quantity {
			return true
		}
	}
	return cumulative >= quantity
}

// wouldCross reports whether a post-only order at price on side would
// immediately match against the opposite top of book.
func (ob *OrderBook) wouldCross(side book.Side, price uint64) bool {
	lvl, ok := ob.book.Opposite(side).Best()
	if !ok {
		return false
	}
	if side == book.Buy {
		return price >= lvl.Price
	}
	return price <= lvl.Price
}
