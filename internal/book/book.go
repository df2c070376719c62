package book

// Book owns both side ladders and the id-to-order index for one
// instrument. It has no notion of time-in-force, post-only, or
// crossing policy — that belongs to the matching engine that drives
// it. Book only guarantees the structural invariants: no empty
// levels, cached volumes that always equal the sum of their members,
// and an index that maps exactly the set of resting ids.
type Book struct {
	Bids *Ladder
	Asks *Ladder

	index map[OrderID]*Order
}

// New returns an empty book.
func New() *Book {
	return &Book{
		Bids:  newLadder(true),
		Asks:  newLadder(false),
		index: make(map[OrderID]*Order),
	}
}

// Ladder returns the side's own ladder (bids for Buy, asks for Sell).
func (b *Book) Ladder(side Side) *Ladder {
	if side == Buy {
		return b.Bids
	}
	return b.Asks
}

// Opposite returns the ladder an incoming order of this side crosses
// against (asks for a buy, bids for a sell).
func (b *Book) Opposite(side Side) *Ladder {
	if side == Buy {
		return b.Asks
	}
	return b.Bids
}

// Lookup finds a resting order by id.
func (b *Book) Lookup(id OrderID) (*Order, bool) {
	o, ok := b.index[id]
	return o, ok
}

// Len reports how many orders are currently resting.
func (b *Book) Len() int {
	return len(b.index)
}

// Rest inserts a new order at its own side and price, appending it to
// the level's FIFO and indexing it by id. o must not already be
// resting.
func (b *Book) Rest(o *Order) {
	lvl := b.Ladder(o.Side).GetOrCreate(o.Price)
	lvl.append(o)
	b.index[o.ID] = o
}

// FillMaker applies a match of qty against a resting maker order:
// decrements its remaining quantity and its level's volume cache in
// one step, drops it from the index and its level if it drains to
// zero, and erases the level from its ladder if that empties it.
func (b *Book) FillMaker(maker *Order, qty uint64) {
	lvl := maker.lvl
	if lvl.fill(maker, qty) {
		delete(b.index, maker.ID)
	}
	b.Ladder(maker.Side).removeIfEmpty(lvl)
}

// Cancel unlinks a resting order from its level and the index in O(1)
// and returns it. The level is erased from its ladder if it empties.
func (b *Book) Cancel(id OrderID) (*Order, bool) {
	o, ok := b.index[id]
	if !ok {
		return nil, false
	}
	lvl := o.lvl
	lvl.unlink(o)
	delete(b.index, id)
	b.Ladder(o.Side).removeIfEmpty(lvl)
	return o, true
}

// ShrinkInPlace reduces a resting order's remaining quantity without
// moving it within its level's FIFO, preserving time priority. newQty
// must be strictly between 0 and the order's current remaining
// quantity; callers are expected to have validated that already.
func (b *Book) ShrinkInPlace(id OrderID, newQty uint64) (*Order, bool) {
	o, ok := b.index[id]
	if !ok {
		return nil, false
	}
	o.lvl.shrink(o, newQty)
	return o, true
}

// BestPrice returns the top-of-book price for side, if any.
func (b *Book) BestPrice(side Side) (uint64, bool) {
	lvl, ok := b.Ladder(side).Best()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}
