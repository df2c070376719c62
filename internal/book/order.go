package book

import "container/list"

// Order is one resting or in-flight order. RemainingQuantity is the
// only field mutated after creation (aside from the housekeeping
// fields the book maintains while the order rests).
//
// Invariant: RemainingQuantity > 0 for any order reachable from a
// Book's ladders or index. An order that reaches zero is unlinked in
// the same step that drains it.
type Order struct {
	ID                OrderID
	Side              Side
	Price             uint64
	OriginalQuantity  uint64
	RemainingQuantity uint64
	TimeInForce       TimeInForce
	PostOnly          bool

	// Sequence is assigned the moment the order rests; it is the
	// time-priority tiebreaker within a price level. FIFO append
	// already encodes this ordering, so Sequence is carried mainly
	// for diagnostics and for tests asserting priority explicitly.
	Sequence uint64

	// elem and lvl are the order's stable handle into its level:
	// together they let Book unlink this order from its price
	// level in O(1), without a scan and without a separate locator
	// type. Both are nil while the order is not resting.
	elem *list.Element
	lvl  *PriceLevel
}

// Resting reports whether the order currently occupies a price level.
func (o *Order) Resting() bool {
	return o.elem != nil
}
