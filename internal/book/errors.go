package book

import "errors"

// Errors returned by Book operations. None of these corrupt book state —
// every one is a no-op protocol violation that the caller should count and
// move past, per the ITCH error taxonomy: parse errors never reach here,
// resource exhaustion is fatal at the pool, and these are the remaining
// "should never happen but defend anyway" cases.
var (
	// ErrUnknownOrder is returned by ReduceOrder, DeleteOrder,
	// ExecuteOrder, and ReplaceOrder's old-id lookup when order_ref does
	// not name a resting order. ITCH guarantees this doesn't happen; we
	// skip the operation rather than fabricate a placeholder order with
	// no real side or price, which would corrupt I1/I3 the moment it was
	// unlinked from a level it was never really inserted into.
	ErrUnknownOrder = errors.New("book: unknown order reference")

	// ErrDuplicateOrder is returned by AddOrder when id already rests in
	// the book. Treated as a protocol violation and skipped rather than
	// overwriting the resting order.
	ErrDuplicateOrder = errors.New("book: duplicate order id")

	// ErrInvalidQuantity is returned by AddOrder when the requested
	// quantity is zero. ReplaceOrder and ModifyOrder do not return it: a
	// zero new quantity makes them a plain delete.
	ErrInvalidQuantity = errors.New("book: quantity must be positive")

	// ErrNewOrderExists is returned by ReplaceOrder when new_id already
	// rests in the book.
	ErrNewOrderExists = errors.New("book: replacement order id already rests")

	// ErrUnknownSymbol is returned by BookRegistry.Dispatch when an
	// order-affecting message arrives for a symbol never announced by a
	// StockDirectory message.
	ErrUnknownSymbol = errors.New("book: unknown symbol")
)
