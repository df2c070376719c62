package book

import "github.com/tidwall/btree"

// Ladder is the ordered collection of price levels for one side of
// the book, keyed by price. Bids compare highest-price-first and asks
// compare lowest-price-first, so in both cases the btree's minimum
// item is always the best level.
//
// Every mutating method keeps the invariant that no empty level is
// ever left reachable: an append can create a level, but every path
// that can empty one (fill, cancel) removes it in the same call.
// Shrinking an order in place never empties a level.
type Ladder struct {
	levels *btree.BTreeG[*PriceLevel]
}

func newLadder(desc bool) *Ladder {
	less := func(a, b *PriceLevel) bool { return a.Price < b.Price }
	if desc {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	}
	return &Ladder{levels: btree.NewBTreeG(less)}
}

// Best returns the top-of-book level. It walks the btree's leftmost
// path to its minimum item, so it costs O(log n) in the number of
// levels; no pointer to the best level is cached.
func (l *Ladder) Best() (*PriceLevel, bool) {
	return l.levels.Min()
}

// Get returns the level at price, if one exists, without creating it.
func (l *Ladder) Get(price uint64) (*PriceLevel, bool) {
	return l.levels.Get(&PriceLevel{Price: price})
}

// GetOrCreate returns the level at price, creating and inserting an
// empty one if it does not yet exist.
func (l *Ladder) GetOrCreate(price uint64) *PriceLevel {
	if lvl, ok := l.levels.Get(&PriceLevel{Price: price}); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	l.levels.Set(lvl)
	return lvl
}

// removeIfEmpty erases lvl from the ladder if it has no resting
// orders left. Called after every fill/unlink that could have drained
// a level.
func (l *Ladder) removeIfEmpty(lvl *PriceLevel) {
	if lvl.Empty() {
		l.levels.Delete(lvl)
	}
}

// Len reports the number of distinct price levels.
func (l *Ladder) Len() int {
	return l.levels.Len()
}

// Levels returns up to max price levels, ordered best to worst. A
// max of 0 or less returns every level.
func (l *Ladder) Levels(max int) []*PriceLevel {
	items := l.levels.Items()
	if max > 0 && max < len(items) {
		items = items[:max]
	}
	return items
}
