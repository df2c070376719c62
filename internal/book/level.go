package book

import "container/list"

// PriceLevel is the FIFO of resting orders at one price on one side,
// plus a volume cache kept in lockstep with every append/fill/remove
// so callers never need to walk the queue to answer "how much is
// resting here".
type PriceLevel struct {
	Price   uint64
	Volume  uint64
	orders  *list.List
}

func newPriceLevel(price uint64) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: list.New(),
	}
}

// Front returns the oldest resting order at this level, or nil if the
// level is empty.
func (lvl *PriceLevel) Front() *Order {
	e := lvl.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

// Len reports the number of orders resting at this level.
func (lvl *PriceLevel) Len() int {
	return lvl.orders.Len()
}

// Orders returns the resting orders at this level, oldest first. The
// slice is a fresh copy; mutating it does not affect the level.
func (lvl *PriceLevel) Orders() []*Order {
	out := make([]*Order, 0, lvl.orders.Len())
	for e := lvl.orders.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Order))
	}
	return out
}

// append pushes o onto the back of the FIFO, wires its handle, and
// updates the volume cache. o must not already be resting.
func (lvl *PriceLevel) append(o *Order) {
	o.elem = lvl.orders.PushBack(o)
	o.lvl = lvl
	lvl.Volume = SaturatingAdd(lvl.Volume, o.RemainingQuantity)
}

// fill decrements o's remaining quantity and the level's cached
// volume by qty in the same step. If o is drained to zero it is
// unlinked from the FIFO and its handle cleared; fill reports whether
// that happened so the caller can also drop it from the order index.
func (lvl *PriceLevel) fill(o *Order, qty uint64) (drained bool) {
	o.RemainingQuantity = SaturatingSub(o.RemainingQuantity, qty)
	lvl.Volume = SaturatingSub(lvl.Volume, qty)
	if o.RemainingQuantity == 0 {
		lvl.orders.Remove(o.elem)
		o.elem = nil
		o.lvl = nil
		return true
	}
	return false
}

// shrink reduces o's remaining quantity in place, preserving its
// position in the FIFO (and therefore its time priority). newQty must
// be strictly between 0 and o's current remaining quantity.
func (lvl *PriceLevel) shrink(o *Order, newQty uint64) {
	delta := SaturatingSub(o.RemainingQuantity, newQty)
	o.RemainingQuantity = newQty
	lvl.Volume = SaturatingSub(lvl.Volume, delta)
}

// unlink removes o from the FIFO unconditionally (used by Cancel,
// where the order may still carry remaining quantity).
func (lvl *PriceLevel) unlink(o *Order) {
	lvl.orders.Remove(o.elem)
	lvl.Volume = SaturatingSub(lvl.Volume, o.RemainingQuantity)
	o.elem = nil
	o.lvl = nil
}

// Empty reports whether the level has no resting orders left. An
// empty level must never be left reachable from a Ladder.
func (lvl *PriceLevel) Empty() bool {
	return lvl.orders.Len() == 0
}
