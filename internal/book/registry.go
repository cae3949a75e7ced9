package book

// BookRegistry maps a stock_locate (ITCH's 16-bit symbol id) to its Book.
// The id space is small enough in practice that a dense slice indexed by
// id beats a map on cache behavior. Books are created on StockDirectory
// and live for the session; the registry never deletes one.
type BookRegistry struct {
	books    []*Book
	observer ObserverInterface
}

func NewBookRegistry(observer ObserverInterface) *BookRegistry {
	if observer == nil {
		observer = NullObserver{}
	}
	return &BookRegistry{observer: observer}
}

func (r *BookRegistry) ensureCapacity(symbol uint16) {
	if int(symbol) < len(r.books) {
		return
	}
	grown := make([]*Book, int(symbol)+1)
	copy(grown, r.books)
	r.books = grown
}

// AddSymbol creates the Book for symbol if it does not already exist,
// firing on_add_symbol and on_add_book. Re-announcing an already-known
// symbol is a no-op.
func (r *BookRegistry) AddSymbol(symbol uint16) *Book {
	r.ensureCapacity(symbol)
	if r.books[symbol] != nil {
		return r.books[symbol]
	}
	b := NewBook(symbol, r.observer)
	r.books[symbol] = b
	r.observer.OnAddSymbol(symbol)
	r.observer.OnAddBook(b)
	return b
}

// Book returns the Book for symbol, if one has been created.
func (r *BookRegistry) Book(symbol uint16) (*Book, bool) {
	if int(symbol) >= len(r.books) || r.books[symbol] == nil {
		return nil, false
	}
	return r.books[symbol], true
}

// Dispatch routes a decoded order-affecting event to its Book, by symbol.
// It is the driver's single entry point into the core; unknown symbols
// (no prior StockDirectory) are reported so the caller can count them as
// protocol violations without the registry needing its own error type.
func (r *BookRegistry) Dispatch(symbol uint16, op func(b *Book) error) error {
	b, ok := r.Book(symbol)
	if !ok {
		return ErrUnknownSymbol
	}
	return op(b)
}
