package book

// ObserverInterface is the callback surface Book and BookRegistry invoke on
// every state transition. Implementations must not mutate the book from
// within a callback and must not panic; the core calls these synchronously
// on the mutation path.
type ObserverInterface interface {
	OnAddSymbol(symbol uint16)
	OnDeleteSymbol(symbol uint16)

	OnAddBook(b *Book)
	OnDeleteBook(b *Book)
	OnUpdateBook(b *Book, topChanged bool, symbol uint16)

	OnAddLevel(b *Book, lv *Level, top bool)
	OnUpdateLevel(b *Book, lv *Level, top bool)
	OnDeleteLevel(b *Book, lv *Level, top bool)

	OnAddOrder(o *Order)
	OnUpdateOrder(o *Order)
	OnDeleteOrder(o *Order)
	OnExecuteOrder(o *Order, price, qty uint32)
}

// NullObserver discards every callback. Embed it to implement only the
// callbacks a particular observer cares about.
type NullObserver struct{}

func (NullObserver) OnAddSymbol(uint16)                        {}
func (NullObserver) OnDeleteSymbol(uint16)                     {}
func (NullObserver) OnAddBook(*Book)                           {}
func (NullObserver) OnDeleteBook(*Book)                        {}
func (NullObserver) OnUpdateBook(*Book, bool, uint16)          {}
func (NullObserver) OnAddLevel(*Book, *Level, bool)            {}
func (NullObserver) OnUpdateLevel(*Book, *Level, bool)         {}
func (NullObserver) OnDeleteLevel(*Book, *Level, bool)         {}
func (NullObserver) OnAddOrder(*Order)                         {}
func (NullObserver) OnUpdateOrder(*Order)                      {}
func (NullObserver) OnDeleteOrder(*Order)                      {}
func (NullObserver) OnExecuteOrder(*Order, uint32, uint32)      {}

// CountingObserver tallies how many times each callback fired; it records
// counts only, not the order of calls. It is used by tests to assert how
// many callbacks each operation fires and by the CLI to print the
// end-of-stream summary report.
type CountingObserver struct {
	AddSymbol, DeleteSymbol int
	AddBook, DeleteBook     int
	UpdateBook, TopChanges  int
	AddLevel, UpdateLevel   int
	DeleteLevel             int
	AddOrder, UpdateOrder   int
	DeleteOrder, Executions int
}

func (c *CountingObserver) OnAddSymbol(uint16)    { c.AddSymbol++ }
func (c *CountingObserver) OnDeleteSymbol(uint16) { c.DeleteSymbol++ }
func (c *CountingObserver) OnAddBook(*Book)       { c.AddBook++ }
func (c *CountingObserver) OnDeleteBook(*Book)    { c.DeleteBook++ }

func (c *CountingObserver) OnUpdateBook(_ *Book, topChanged bool, _ uint16) {
	c.UpdateBook++
	if topChanged {
		c.TopChanges++
	}
}

func (c *CountingObserver) OnAddLevel(*Book, *Level, bool)    { c.AddLevel++ }
func (c *CountingObserver) OnUpdateLevel(*Book, *Level, bool) { c.UpdateLevel++ }
func (c *CountingObserver) OnDeleteLevel(*Book, *Level, bool) { c.DeleteLevel++ }

func (c *CountingObserver) OnAddOrder(*Order)    { c.AddOrder++ }
func (c *CountingObserver) OnUpdateOrder(*Order) { c.UpdateOrder++ }
func (c *CountingObserver) OnDeleteOrder(*Order) { c.DeleteOrder++ }

func (c *CountingObserver) OnExecuteOrder(*Order, uint32, uint32) { c.Executions++ }

// MultiObserver fans every callback out to a fixed set of observers, in
// order. It lets the CLI wire a CountingObserver alongside any number of
// streaming observers without either knowing the other exists.
type MultiObserver []ObserverInterface

func (m MultiObserver) OnAddSymbol(symbol uint16) {
	for _, o := range m {
		o.OnAddSymbol(symbol)
	}
}

func (m MultiObserver) OnDeleteSymbol(symbol uint16) {
	for _, o := range m {
		o.OnDeleteSymbol(symbol)
	}
}

func (m MultiObserver) OnAddBook(b *Book) {
	for _, o := range m {
		o.OnAddBook(b)
	}
}

func (m MultiObserver) OnDeleteBook(b *Book) {
	for _, o := range m {
		o.OnDeleteBook(b)
	}
}

func (m MultiObserver) OnUpdateBook(b *Book, topChanged bool, symbol uint16) {
	for _, o := range m {
		o.OnUpdateBook(b, topChanged, symbol)
	}
}

func (m MultiObserver) OnAddLevel(b *Book, lv *Level, top bool) {
	for _, o := range m {
		o.OnAddLevel(b, lv, top)
	}
}

func (m MultiObserver) OnUpdateLevel(b *Book, lv *Level, top bool) {
	for _, o := range m {
		o.OnUpdateLevel(b, lv, top)
	}
}

func (m MultiObserver) OnDeleteLevel(b *Book, lv *Level, top bool) {
	for _, o := range m {
		o.OnDeleteLevel(b, lv, top)
	}
}

func (m MultiObserver) OnAddOrder(o *Order) {
	for _, obs := range m {
		obs.OnAddOrder(o)
	}
}

func (m MultiObserver) OnUpdateOrder(o *Order) {
	for _, obs := range m {
		obs.OnUpdateOrder(o)
	}
}

func (m MultiObserver) OnDeleteOrder(o *Order) {
	for _, obs := range m {
		obs.OnDeleteOrder(o)
	}
}

func (m MultiObserver) OnExecuteOrder(o *Order, price, qty uint32) {
	for _, obs := range m {
		obs.OnExecuteOrder(o, price, qty)
	}
}
