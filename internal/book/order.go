package book

import "github.com/orbitcex/itchbook/internal/pool"

// Side identifies which side of the book an Order or Level belongs to.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order is a single resting limit order. Prev/Next thread it into its
// Level's intrusive FIFO; Level is a non-owning back-reference used only to
// look up the containing Level handle, never to keep it alive.
type Order struct {
	ID       uint64
	Symbol   uint16
	Side     Side
	Price    uint32
	Quantity uint32

	Level      pool.Handle
	Prev, Next pool.Handle
}
