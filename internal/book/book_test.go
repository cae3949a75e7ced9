package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook() *Book {
	return NewBook(42, &CountingObserver{})
}

// S1 — empty book + one add.
func TestAddOrderEmptyBook(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 10000, 100))

	lvl, ok := b.Level(Buy, 10000)
	require.True(t, ok)
	assert.EqualValues(t, 100, lvl.TotalVolume)
	assert.Equal(t, 1, lvl.OrderCount)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.EqualValues(t, 10000, bid)
	_, ok = b.BestAsk()
	assert.False(t, ok)
}

// S2 — two levels, best tracking.
func TestBestBidTracksImprovingAdds(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 10000, 100))
	require.NoError(t, b.AddOrder(2, Buy, 10005, 50))

	bid, _ := b.BestBid()
	assert.EqualValues(t, 10005, bid)

	require.NoError(t, b.AddOrder(3, Buy, 9995, 200))
	bid, _ = b.BestBid()
	assert.EqualValues(t, 10005, bid, "worse-priced add must not move best")
}

// S3 — execute partial then execute remainder.
func TestExecutePartialThenRemainder(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 10000, 100))

	require.NoError(t, b.ExecuteOrder(1, 30))
	o, ok := b.Order(1)
	require.True(t, ok)
	assert.EqualValues(t, 70, o.Quantity)
	lvl, _ := b.Level(Buy, 10000)
	assert.EqualValues(t, 70, lvl.TotalVolume)
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.EqualValues(t, 10000, bid)

	require.NoError(t, b.ExecuteOrder(1, 70))
	_, ok = b.Order(1)
	assert.False(t, ok)
	_, ok = b.Level(Buy, 10000)
	assert.False(t, ok)
	_, ok = b.BestBid()
	assert.False(t, ok)
}

// S4 — cancel partial, cancel clamped.
func TestReduceOrderClampsToRemaining(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(10, Sell, 5000, 100))

	require.NoError(t, b.ReduceOrder(10, 40))
	o, _ := b.Order(10)
	assert.EqualValues(t, 60, o.Quantity)
	lvl, _ := b.Level(Sell, 5000)
	assert.EqualValues(t, 60, lvl.TotalVolume)

	require.NoError(t, b.ReduceOrder(10, 999))
	_, ok := b.Order(10)
	assert.False(t, ok)
	_, ok = b.Level(Sell, 5000)
	assert.False(t, ok)
}

// S5 — replace preserves side+symbol, changes id/price/qty.
func TestReplaceOrderPreservesSideChangesIdentity(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(100, Buy, 200, 10))

	require.NoError(t, b.ReplaceOrder(100, 101, 210, 5))
	_, ok := b.Order(100)
	assert.False(t, ok)
	o, ok := b.Order(101)
	require.True(t, ok)
	assert.Equal(t, Buy, o.Side)
	assert.EqualValues(t, 210, o.Price)
	assert.EqualValues(t, 5, o.Quantity)

	bid, _ := b.BestBid()
	assert.EqualValues(t, 210, bid)
}

// S6 — FIFO within a level.
func TestFIFOOrderWithinLevel(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 100, 10))
	require.NoError(t, b.AddOrder(2, Buy, 100, 20))
	require.NoError(t, b.AddOrder(3, Buy, 100, 30))

	require.NoError(t, b.ExecuteOrder(1, 10))
	lvl, _ := b.Level(Buy, 100)
	assert.Equal(t, 2, lvl.OrderCount)

	head, ok := b.Order(headID(t, b, lvl))
	require.True(t, ok)
	assert.EqualValues(t, 2, head.ID)

	require.NoError(t, b.ExecuteOrder(2, 5))
	lvl, _ = b.Level(Buy, 100)
	head, _ = b.Order(headID(t, b, lvl))
	assert.EqualValues(t, 2, head.ID, "partial execute must not move order out of FIFO head")
	o2, _ := b.Order(2)
	assert.EqualValues(t, 15, o2.Quantity)
}

// headID resolves the FIFO head order's id for assertions without exposing
// pool handles to the test package boundary in production code.
func headID(t *testing.T, b *Book, lvl *Level) uint64 {
	t.Helper()
	require.NotEqual(t, int32(-1), int32(lvl.Head))
	return b.orders.Get(lvl.Head).ID
}

// P1/P3 — volume conservation and no empty levels after a mixed sequence.
func TestVolumeConservationAndNoEmptyLevels(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Sell, 100, 10))
	require.NoError(t, b.AddOrder(2, Sell, 100, 20))
	require.NoError(t, b.ReduceOrder(1, 10))

	lvl, ok := b.Level(Sell, 100)
	require.True(t, ok)
	assert.EqualValues(t, 20, lvl.TotalVolume)
	assert.Equal(t, 1, lvl.OrderCount)

	require.NoError(t, b.DeleteOrder(2))
	_, ok = b.Level(Sell, 100)
	assert.False(t, ok, "level must not persist once its volume reaches zero")
}

// P5 — best correctness after an erase that removes the current best,
// exercising the canonical Min/Max extremum recomputation rather than a
// neighbor-pointer guess.
func TestBestRecomputedCanonicallyAfterBestErased(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 100, 10))
	require.NoError(t, b.AddOrder(2, Buy, 110, 10))
	require.NoError(t, b.AddOrder(3, Buy, 120, 10))

	bid, _ := b.BestBid()
	require.EqualValues(t, 120, bid)

	require.NoError(t, b.DeleteOrder(3))
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.EqualValues(t, 110, bid)

	require.NoError(t, b.DeleteOrder(2))
	bid, ok = b.BestBid()
	require.True(t, ok)
	assert.EqualValues(t, 100, bid)

	require.NoError(t, b.DeleteOrder(1))
	_, ok = b.BestBid()
	assert.False(t, ok)
}

// P7 — replace retires the old id.
func TestReplaceRetiresOldID(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Sell, 100, 10))
	require.NoError(t, b.ReplaceOrder(1, 2, 100, 10))
	_, ok := b.Order(1)
	assert.False(t, ok)
	_, ok = b.Order(2)
	assert.True(t, ok)
}

// P8 — modify/replace to the same price lose time priority (new tail).
func TestModifySamePriceLosesTimePriority(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 100, 10))
	require.NoError(t, b.AddOrder(2, Buy, 100, 20))

	require.NoError(t, b.ModifyOrder(1, 100, 15))

	lvl, _ := b.Level(Buy, 100)
	assert.EqualValues(t, 2, b.orders.Get(lvl.Head).ID, "order 2 keeps its original place")
	assert.EqualValues(t, 1, b.orders.Get(lvl.Tail).ID, "modified order moves to the tail")
}

// Duplicate AddOrder and unknown-reference operations are protocol
// violations that must not corrupt book invariants.
func TestDuplicateAddOrderIsRejected(t *testing.T) {
	b := newTestBook()
	require.NoError(t, b.AddOrder(1, Buy, 100, 10))
	err := b.AddOrder(1, Buy, 200, 5)
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	o, _ := b.Order(1)
	assert.EqualValues(t, 100, o.Price, "rejected duplicate must not mutate the existing order")
}

func TestUnknownOrderReferenceIsRejected(t *testing.T) {
	b := newTestBook()
	assert.ErrorIs(t, b.ReduceOrder(999, 10), ErrUnknownOrder)
	assert.ErrorIs(t, b.DeleteOrder(999), ErrUnknownOrder)
	assert.ErrorIs(t, b.ExecuteOrder(999, 10), ErrUnknownOrder)
	assert.ErrorIs(t, b.ReplaceOrder(999, 1000, 100, 10), ErrUnknownOrder)
}

// Update-ordering contract: level callback before book-changed callback,
// observed indirectly via the counting observer.
func TestObserverCallbackCounts(t *testing.T) {
	obs := &CountingObserver{}
	b := NewBook(7, obs)

	require.NoError(t, b.AddOrder(1, Buy, 100, 10))
	assert.Equal(t, 1, obs.AddOrder)
	assert.Equal(t, 1, obs.AddLevel)
	assert.Equal(t, 1, obs.UpdateBook)
	assert.Equal(t, 1, obs.TopChanges, "first add at an empty ladder changes top")

	require.NoError(t, b.AddOrder(2, Buy, 90, 5))
	assert.Equal(t, 2, obs.AddLevel, "second add opens a new, non-improving level")
	assert.Equal(t, 1, obs.TopChanges, "worse price must not register as a top change")

	require.NoError(t, b.DeleteOrder(1))
	assert.Equal(t, 1, obs.DeleteLevel)
	assert.Equal(t, 2, obs.TopChanges, "removing the best must register as a top change")
}
