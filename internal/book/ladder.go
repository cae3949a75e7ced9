package book

import (
	"github.com/tidwall/btree"

	"github.com/orbitcex/itchbook/internal/pool"
)

// PriceLadder is the ordered index of Levels for one side of one Book. It
// is keyed by price rather than a hash so the best quote is always the
// tree's boundary element — a hash map would make that an O(n) scan.
type PriceLadder struct {
	side Side
	tree *btree.Map[uint32, pool.Handle]

	hasBest    bool
	bestPrice  uint32
	bestHandle pool.Handle
}

func NewPriceLadder(side Side) *PriceLadder {
	return &PriceLadder{
		side: side,
		tree: btree.NewMap[uint32, pool.Handle](32),
	}
}

func (l *PriceLadder) Find(price uint32) (pool.Handle, bool) {
	return l.tree.Get(price)
}

func (l *PriceLadder) Len() int { return l.tree.Len() }

func (l *PriceLadder) Empty() bool { return l.tree.Len() == 0 }

// Insert adds a new Level handle at price. It must only be called for
// prices not already present (I6: prices are unique per ladder).
func (l *PriceLadder) Insert(price uint32, h pool.Handle) {
	l.tree.Set(price, h)
	if !l.hasBest || l.improves(price) {
		l.bestPrice, l.bestHandle, l.hasBest = price, h, true
	}
}

func (l *PriceLadder) improves(price uint32) bool {
	if l.side == Buy {
		return price > l.bestPrice
	}
	return price < l.bestPrice
}

// Erase removes the Level at price. If it held the cached best, the
// replacement is read straight from the tree's true extremum — never from
// a neighbor-pointer guess, which is only correct for some tree shapes.
func (l *PriceLadder) Erase(price uint32) {
	l.tree.Delete(price)
	if l.hasBest && price == l.bestPrice {
		l.recomputeBest()
	}
}

func (l *PriceLadder) recomputeBest() {
	var (
		k  uint32
		v  pool.Handle
		ok bool
	)
	if l.side == Buy {
		k, v, ok = l.tree.Max()
	} else {
		k, v, ok = l.tree.Min()
	}
	l.bestPrice, l.bestHandle, l.hasBest = k, v, ok
}

// Best returns the current extremum handle (max price for Buy, min price
// for Sell) and whether the ladder is non-empty.
func (l *PriceLadder) Best() (pool.Handle, bool) {
	return l.bestHandle, l.hasBest
}
