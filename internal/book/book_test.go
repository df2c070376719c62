package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recomputeVolume(lvl *PriceLevel) uint64 {
	var sum uint64
	for _, o := range lvl.Orders() {
		sum += o.RemainingQuantity
	}
	return sum
}

func TestRestAndFillMaker_KeepsVolumeCacheAccurate(t *testing.T) {
	b := New()
	buy1 := &Order{ID: 1, Side: Buy, Price: 100, RemainingQuantity: 10}
	buy2 := &Order{ID: 2, Side: Buy, Price: 100, RemainingQuantity: 5}
	b.Rest(buy1)
	b.Rest(buy2)

	lvl, ok := b.Bids.Get(100)
	require.True(t, ok)
	assert.EqualValues(t, 15, lvl.Volume)
	assert.EqualValues(t, 15, recomputeVolume(lvl))

	b.FillMaker(buy1, 4)
	assert.EqualValues(t, 11, lvl.Volume)
	assert.EqualValues(t, 11, recomputeVolume(lvl))
	assert.EqualValues(t, 6, buy1.RemainingQuantity)

	b.FillMaker(buy1, 6)
	_, ok = b.Lookup(1)
	assert.False(t, ok, "fully filled order must leave the index")
	assert.EqualValues(t, 5, lvl.Volume)
}

func TestFillMaker_RemovesEmptyLevelFromLadder(t *testing.T) {
	b := New()
	sell := &Order{ID: 1, Side: Sell, Price: 50, RemainingQuantity: 10}
	b.Rest(sell)

	b.FillMaker(sell, 10)

	_, ok := b.Asks.Get(50)
	assert.False(t, ok, "an emptied level must be erased from its ladder")
	assert.Equal(t, 0, b.Asks.Len())
}

func TestCancel_RemovesFromIndexAndErasesEmptyLevel(t *testing.T) {
	b := New()
	o := &Order{ID: 7, Side: Buy, Price: 10, RemainingQuantity: 3}
	b.Rest(o)

	got, ok := b.Cancel(7)
	require.True(t, ok)
	assert.Same(t, o, got)
	assert.EqualValues(t, 3, got.RemainingQuantity, "cancel reports the quantity that was resting")

	_, ok = b.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Bids.Len())

	_, ok = b.Cancel(7)
	assert.False(t, ok, "cancelling twice must fail the second time")
}

func TestCancel_PreservesSiblingOrdersAndVolume(t *testing.T) {
	b := New()
	a := &Order{ID: 1, Side: Buy, Price: 10, RemainingQuantity: 4}
	c := &Order{ID: 2, Side: Buy, Price: 10, RemainingQuantity: 6}
	b.Rest(a)
	b.Rest(c)

	_, ok := b.Cancel(1)
	require.True(t, ok)

	lvl, ok := b.Bids.Get(10)
	require.True(t, ok)
	assert.EqualValues(t, 6, lvl.Volume)
	assert.Equal(t, []*Order{c}, lvl.Orders())
}

func TestShrinkInPlace_PreservesFIFOPosition(t *testing.T) {
	b := New()
	first := &Order{ID: 1, Side: Buy, Price: 10, RemainingQuantity: 10}
	second := &Order{ID: 2, Side: Buy, Price: 10, RemainingQuantity: 10}
	b.Rest(first)
	b.Rest(second)

	_, ok := b.ShrinkInPlace(1, 3)
	require.True(t, ok)

	lvl, _ := b.Bids.Get(10)
	assert.EqualValues(t, 13, lvl.Volume)
	orders := lvl.Orders()
	assert.Equal(t, OrderID(1), orders[0].ID, "shrinking must not move the order in the FIFO")
	assert.EqualValues(t, 3, orders[0].RemainingQuantity)
}

func TestLadderOrdering_BidsDescendingAsksAscending(t *testing.T) {
	b := New()
	for _, p := range []uint64{100, 102, 101} {
		b.Rest(&Order{ID: p, Side: Buy, Price: p, RemainingQuantity: 1})
		b.Rest(&Order{ID: p + 1000, Side: Sell, Price: p, RemainingQuantity: 1})
	}

	bidPrices := make([]uint64, 0, 3)
	for _, lvl := range b.Bids.Levels(0) {
		bidPrices = append(bidPrices, lvl.Price)
	}
	assert.Equal(t, []uint64{102, 101, 100}, bidPrices)

	askPrices := make([]uint64, 0, 3)
	for _, lvl := range b.Asks.Levels(0) {
		askPrices = append(askPrices, lvl.Price)
	}
	assert.Equal(t, []uint64{100, 101, 102}, askPrices)
}

func TestBestPrice_EmptySideReportsFalse(t *testing.T) {
	b := New()
	_, ok := b.BestPrice(Buy)
	assert.False(t, ok)
}
