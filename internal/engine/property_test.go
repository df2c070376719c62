package engine

import (
	"testing"

	"github.com/fasenderos/orderbook-go/internal/book"
	"pgregory.net/rapid"
)

// verifyStructuralInvariants checks remaining-quantity positivity,
// volume-cache accuracy, no empty levels, index consistency, and no
// crossed book against whatever state the book happens to be in.
func verifyStructuralInvariants(t *rapid.T, ob *OrderBook) {
	t.Helper()

	var restingCount int
	checkSide := func(side book.Side) {
		for _, lvl := range ob.book.Ladder(side).Levels(0) {
			if lvl.Len() == 0 {
				t.Fatalf("empty level left reachable at price %d on %v", lvl.Price, side)
			}
			var sum uint64
			for _, o := range lvl.Orders() {
				if o.RemainingQuantity == 0 {
					t.Fatalf("resting order %d has zero remaining quantity", o.ID)
				}
				sum += o.RemainingQuantity
				restingCount++
				if _, ok := ob.book.Lookup(o.ID); !ok {
					t.Fatalf("order %d rests in a level but is missing from the index", o.ID)
				}
			}
			if sum != lvl.Volume {
				t.Fatalf("level %d volume cache %d != recomputed sum %d", lvl.Price, lvl.Volume, sum)
			}
		}
	}
	checkSide(book.Buy)
	checkSide(book.Sell)

	if restingCount != ob.book.Len() {
		t.Fatalf("index maps %d ids but %d orders are resting", ob.book.Len(), restingCount)
	}

	bid, hasBid := ob.BestBid()
	ask, hasAsk := ob.BestAsk()
	if hasBid && hasAsk && bid.Price >= ask.Price {
		t.Fatalf("book is crossed: best bid %d >= best ask %d", bid.Price, ask.Price)
	}
}

func randomSide(t *rapid.T) book.Side {
	if rapid.Bool().Draw(t, "side") {
		return book.Buy
	}
	return book.Sell
}

func randomTIF(t *rapid.T) book.TimeInForce {
	return book.TimeInForce(rapid.IntRange(0, 2).Draw(t, "tif"))
}

// TestProperty_StructuralInvariantsHoldAfterAnyCommand fuzzes random
// sequences of every mutating command and checks that the book's
// structural invariants hold after each one — remaining-quantity
// positivity, volume-cache accuracy, no empty levels, index
// consistency, no crossed book — plus that post-only never trades and
// FOK is all-or-nothing.
func TestProperty_StructuralInvariantsHoldAfterAnyCommand(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ob := NewOrderBook("PROP")
		var restingIDs []book.OrderID

		ops := rapid.IntRange(1, 60).Draw(rt, "numOps")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0: // limit
				side := randomSide(rt)
				qty := uint64(rapid.IntRange(1, 50).Draw(rt, "qty"))
				price := uint64(rapid.IntRange(1, 12).Draw(rt, "price"))
				tif := randomTIF(rt)
				postOnly := tif == book.GTC && rapid.Bool().Draw(rt, "postOnly")

				r := ob.Limit(LimitOrderOptions{Side: side, Quantity: qty, Price: price, TimeInForce: tif, PostOnly: postOnly})

				if postOnly {
					if r.Status != StatusRejected && !(r.Status == StatusRested && len(r.Trades) == 0) {
						rt.Fatalf("post-only order neither rejected nor traded zero: %+v", r)
					}
					if r.Status == StatusRejected && r.RejectReason != RejectWouldCross {
						rt.Fatalf("post-only rejection had reason %v, want WouldCross", r.RejectReason)
					}
				}
				if tif == book.FOK {
					if r.Status != StatusRejected && !(r.QuantityFilled == qty && r.QuantityRemaining == 0) {
						rt.Fatalf("FOK order neither rejected nor fully filled: %+v", r)
					}
					if r.Status == StatusRejected && r.RejectReason != RejectInsufficientLiquidity {
						rt.Fatalf("FOK rejection had reason %v, want InsufficientLiquidity", r.RejectReason)
					}
				}
				if tif == book.IOC && !r.Rejected() && r.QuantityRemaining != 0 {
					rt.Fatalf("IOC order left a remaining quantity in the result: %+v", r)
				}
				if !r.Rejected() && r.Status == StatusRested {
					restingIDs = append(restingIDs, r.ID)
				}

			case 1: // market
				side := randomSide(rt)
				qty := uint64(rapid.IntRange(1, 50).Draw(rt, "mqty"))
				ob.Market(MarketOrderOptions{Side: side, Quantity: qty})

			case 2: // cancel, sometimes a stale id
				var id book.OrderID
				if len(restingIDs) > 0 && rapid.Bool().Draw(rt, "cancelKnown") {
					idx := rapid.IntRange(0, len(restingIDs)-1).Draw(rt, "idx")
					id = restingIDs[idx]
					restingIDs = append(restingIDs[:idx], restingIDs[idx+1:]...)
				} else {
					id = book.OrderID(rapid.IntRange(0, 10000).Draw(rt, "unknownID"))
				}
				ob.Cancel(id)

			case 3: // modify, sometimes a stale id
				var id book.OrderID
				if len(restingIDs) > 0 && rapid.Bool().Draw(rt, "modifyKnown") {
					idx := rapid.IntRange(0, len(restingIDs)-1).Draw(rt, "midx")
					id = restingIDs[idx]
				} else {
					id = book.OrderID(rapid.IntRange(0, 10000).Draw(rt, "unknownModID"))
				}
				newQty := uint64(rapid.IntRange(1, 50).Draw(rt, "newQty"))
				r := ob.Modify(id, nil, &newQty)
				if !r.Rejected() && r.ID != id {
					// the modify replaced the order (quantity increase); track the new id instead.
					for j, existing := range restingIDs {
						if existing == id {
							restingIDs[j] = r.ID
						}
					}
					if r.Status != StatusRested {
						restingIDs = removeID(restingIDs, r.ID)
					}
				}
			}

			verifyStructuralInvariants(rt, ob)
		}
	})
}

func removeID(ids []book.OrderID, target book.OrderID) []book.OrderID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// TestProperty_Conservation fuzzes Limit/Market/Cancel only (no
// Modify, whose cancel+resubmit semantics would double-count a
// resubmitted order's quantity against the "submitted" side of the
// ledger) and checks conservation: every unit of quantity submitted is
// eventually traded, resting, or discarded, with no double counting
// and nothing vanishing.
func TestProperty_Conservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ob := NewOrderBook("PROP")
		var totalSubmitted, totalTraded, totalDiscarded uint64

		ops := rapid.IntRange(1, 60).Draw(rt, "numOps")
		var restingIDs []book.OrderID
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0: // limit
				side := randomSide(rt)
				qty := uint64(rapid.IntRange(1, 50).Draw(rt, "qty"))
				price := uint64(rapid.IntRange(1, 12).Draw(rt, "price"))
				tif := randomTIF(rt)

				r := ob.Limit(LimitOrderOptions{Side: side, Quantity: qty, Price: price, TimeInForce: tif})
				if r.Rejected() {
					continue
				}
				totalSubmitted += qty
				for _, tr := range r.Trades {
					totalTraded += tr.Quantity
				}
				if r.Status == StatusRested || r.Status == StatusPartiallyFilledResting {
					restingIDs = append(restingIDs, r.ID)
				} else if r.Status == StatusPartiallyFilledCancelled || r.Status == StatusCancelled {
					totalDiscarded += r.QuantityRemaining
				}

			case 1: // market
				side := randomSide(rt)
				qty := uint64(rapid.IntRange(1, 50).Draw(rt, "mqty"))
				r := ob.Market(MarketOrderOptions{Side: side, Quantity: qty})
				totalSubmitted += qty
				for _, tr := range r.Trades {
					totalTraded += tr.Quantity
				}
				totalDiscarded += r.QuantityRemaining

			case 2: // cancel a known resting order
				if len(restingIDs) == 0 {
					continue
				}
				idx := rapid.IntRange(0, len(restingIDs)-1).Draw(rt, "idx")
				id := restingIDs[idx]
				restingIDs = append(restingIDs[:idx], restingIDs[idx+1:]...)
				r := ob.Cancel(id)
				if !r.Rejected() {
					totalDiscarded += r.QuantityRemaining
				}
			}
		}

		var totalResting uint64
		for _, side := range []book.Side{book.Buy, book.Sell} {
			for _, lvl := range ob.book.Ladder(side).Levels(0) {
				totalResting += lvl.Volume
			}
		}

		if got, want := totalTraded*2+totalResting+totalDiscarded, totalSubmitted; got != want {
			rt.Fatalf("conservation violated: traded*2(%d) + resting(%d) + discarded(%d) = %d, want %d",
				totalTraded*2, totalResting, totalDiscarded, got, want)
		}
	})
}
