package book

import "github.com/orbitcex/itchbook/internal/pool"

// Book is the per-instrument order book: a pair of PriceLadders, an id
// index, and the pooled storage both draw from. A Book is created once
// (on StockDirectory) and lives for the session; it is never destroyed.
type Book struct {
	Symbol uint16

	orders *pool.Arena[Order]
	levels *pool.Arena[Level]
	byID   map[uint64]pool.Handle

	bids *PriceLadder
	asks *PriceLadder

	observer ObserverInterface
}

func NewBook(symbol uint16, observer ObserverInterface) *Book {
	if observer == nil {
		observer = NullObserver{}
	}
	return &Book{
		Symbol:   symbol,
		orders:   pool.New[Order](256, 1024),
		levels:   pool.New[Level](16, 256),
		byID:     make(map[uint64]pool.Handle, 256),
		bids:     NewPriceLadder(Buy),
		asks:     NewPriceLadder(Sell),
		observer: observer,
	}
}

func (b *Book) ladderFor(side Side) *PriceLadder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// BestBid and BestAsk report the current top of book, if any.
func (b *Book) BestBid() (price uint32, ok bool) { return b.bestOf(b.bids) }
func (b *Book) BestAsk() (price uint32, ok bool) { return b.bestOf(b.asks) }

func (b *Book) bestOf(ladder *PriceLadder) (uint32, bool) {
	h, ok := ladder.Best()
	if !ok {
		return 0, false
	}
	return b.levels.Get(h).Price, true
}

// Order looks up a resting order by id.
func (b *Book) Order(id uint64) (*Order, bool) {
	h, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return b.orders.Get(h), true
}

// Level looks up the Level at (side, price), if one is open.
func (b *Book) Level(side Side, price uint32) (*Level, bool) {
	h, ok := b.ladderFor(side).Find(price)
	if !ok {
		return nil, false
	}
	return b.levels.Get(h), true
}

func topChangedFrom(oldHas bool, oldH pool.Handle, newHas bool, newH pool.Handle) bool {
	if oldHas != newHas {
		return true
	}
	if !oldHas {
		return false
	}
	return oldH != newH
}

func (b *Book) emitAddOrUpdateLevel(ladder *PriceLadder, lh pool.Handle, lvl *Level, created bool, oldBest pool.Handle, oldHasBest bool) {
	newBest, newHasBest := ladder.Best()
	top := newHasBest && newBest == lh
	if created {
		b.observer.OnAddLevel(b, lvl, top)
	} else {
		b.observer.OnUpdateLevel(b, lvl, top)
	}
	b.observer.OnUpdateBook(b, topChangedFrom(oldHasBest, oldBest, newHasBest, newBest), b.Symbol)
}

func (b *Book) emitUpdateOrDeleteLevel(ladder *PriceLadder, lh pool.Handle, lvl *Level, removed bool, oldBest pool.Handle, oldHasBest bool) {
	newBest, newHasBest := ladder.Best()
	var top bool
	if removed {
		top = oldHasBest && oldBest == lh
	} else {
		top = newHasBest && newBest == lh
	}
	if removed {
		b.observer.OnDeleteLevel(b, lvl, top)
	} else {
		b.observer.OnUpdateLevel(b, lvl, top)
	}
	b.observer.OnUpdateBook(b, topChangedFrom(oldHasBest, oldBest, newHasBest, newBest), b.Symbol)
}

// AddOrder inserts a fresh resting order. A duplicate id is a protocol
// violation and is skipped rather than corrupting the existing order.
func (b *Book) AddOrder(id uint64, side Side, price, qty uint32) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	if _, exists := b.byID[id]; exists {
		return ErrDuplicateOrder
	}
	_, err := b.addOrderInternal(id, side, price, qty)
	return err
}

func (b *Book) addOrderInternal(id uint64, side Side, price, qty uint32) (pool.Handle, error) {
	ladder := b.ladderFor(side)
	oldBest, oldHasBest := ladder.Best()

	lh, existed := ladder.Find(price)
	var lvl *Level
	if existed {
		lvl = b.levels.Get(lh)
	} else {
		var fresh *Level
		lh, fresh = b.levels.Acquire()
		*fresh = Level{Side: side, Price: price, Head: pool.NilHandle, Tail: pool.NilHandle}
		ladder.Insert(price, lh)
		lvl = fresh
	}

	oh, o := b.orders.Acquire()
	*o = Order{ID: id, Symbol: b.Symbol, Side: side, Price: price, Quantity: qty, Level: pool.NilHandle, Prev: pool.NilHandle, Next: pool.NilHandle}
	lvl.AddOrder(b.orders, lh, oh)
	b.byID[id] = oh

	b.observer.OnAddOrder(o)
	b.emitAddOrUpdateLevel(ladder, lh, lvl, !existed, oldBest, oldHasBest)
	return oh, nil
}

// ReduceOrder clamps qty to the order's remaining quantity and removes that
// much resting volume. This is the book-state effect of an ITCH
// OrderCancel; Execute shares the same mechanics but a different callback.
func (b *Book) ReduceOrder(id uint64, qty uint32) error {
	oh, ok := b.byID[id]
	if !ok {
		return ErrUnknownOrder
	}
	order := b.orders.Get(oh)
	if qty > order.Quantity {
		qty = order.Quantity
	}

	ladder := b.ladderFor(order.Side)
	lh := order.Level
	lvl := b.levels.Get(lh)
	oldBest, oldHasBest := ladder.Best()

	emptied := lvl.ReduceOrder(b.orders, oh, qty)
	if emptied {
		b.observer.OnDeleteOrder(order)
		delete(b.byID, id)
		b.orders.Release(oh)
	} else {
		b.observer.OnUpdateOrder(order)
	}

	levelRemoved := lvl.TotalVolume == 0
	if levelRemoved {
		ladder.Erase(lvl.Price)
		b.levels.Release(lh)
	}
	b.emitUpdateOrDeleteLevel(ladder, lh, lvl, levelRemoved, oldBest, oldHasBest)
	return nil
}

// DeleteOrder removes an order outright, independent of remaining quantity.
func (b *Book) DeleteOrder(id uint64) error {
	oh, ok := b.byID[id]
	if !ok {
		return ErrUnknownOrder
	}
	b.deleteOrderInternal(id, oh)
	return nil
}

func (b *Book) deleteOrderInternal(id uint64, oh pool.Handle) {
	order := b.orders.Get(oh)
	ladder := b.ladderFor(order.Side)
	lh := order.Level
	lvl := b.levels.Get(lh)
	oldBest, oldHasBest := ladder.Best()

	lvl.DeleteOrder(b.orders, oh)
	b.observer.OnDeleteOrder(order)
	delete(b.byID, id)
	b.orders.Release(oh)

	levelRemoved := lvl.TotalVolume == 0
	if levelRemoved {
		ladder.Erase(lvl.Price)
		b.levels.Release(lh)
	}
	b.emitUpdateOrDeleteLevel(ladder, lh, lvl, levelRemoved, oldBest, oldHasBest)
}

// ModifyOrder behaves as DeleteOrder(id) followed by AddOrder at the new
// price/quantity under the same id; time priority at the new price is lost.
// A new quantity of zero acts as a plain delete.
func (b *Book) ModifyOrder(id uint64, newPrice, newQty uint32) error {
	oh, ok := b.byID[id]
	if !ok {
		return ErrUnknownOrder
	}
	side := b.orders.Get(oh).Side
	b.deleteOrderInternal(id, oh)
	if newQty == 0 {
		return nil
	}
	_, err := b.addOrderInternal(id, side, newPrice, newQty)
	return err
}

// ReplaceOrder retires oldID and, if newQty > 0, creates newID on the same
// side and symbol at (newPrice, newQty). A replace to zero quantity acts as
// a delete of oldID only, per spec.
func (b *Book) ReplaceOrder(oldID, newID uint64, newPrice, newQty uint32) error {
	oh, ok := b.byID[oldID]
	if !ok {
		return ErrUnknownOrder
	}
	if _, exists := b.byID[newID]; exists {
		return ErrNewOrderExists
	}
	side := b.orders.Get(oh).Side
	b.deleteOrderInternal(oldID, oh)
	if newQty == 0 {
		return nil
	}
	_, err := b.addOrderInternal(newID, side, newPrice, newQty)
	return err
}

// ExecuteOrder reduces qty like ReduceOrder but notifies the observer with
// an execution callback at the order's resting price.
func (b *Book) ExecuteOrder(id uint64, qty uint32) error {
	return b.executeOrder(id, qty, nil)
}

// ExecuteOrderAtPrice is the price-bearing ITCH execution variant.
func (b *Book) ExecuteOrderAtPrice(id uint64, qty, price uint32) error {
	p := price
	return b.executeOrder(id, qty, &p)
}

func (b *Book) executeOrder(id uint64, qty uint32, explicitPrice *uint32) error {
	oh, ok := b.byID[id]
	if !ok {
		return ErrUnknownOrder
	}
	order := b.orders.Get(oh)
	if qty > order.Quantity {
		qty = order.Quantity
	}
	execPrice := order.Price
	if explicitPrice != nil {
		execPrice = *explicitPrice
	}

	ladder := b.ladderFor(order.Side)
	lh := order.Level
	lvl := b.levels.Get(lh)
	oldBest, oldHasBest := ladder.Best()

	b.observer.OnExecuteOrder(order, execPrice, qty)

	emptied := lvl.ReduceOrder(b.orders, oh, qty)
	if emptied {
		delete(b.byID, id)
		b.orders.Release(oh)
	}

	levelRemoved := lvl.TotalVolume == 0
	if levelRemoved {
		ladder.Erase(lvl.Price)
		b.levels.Release(lh)
	}
	b.emitUpdateOrDeleteLevel(ladder, lh, lvl, levelRemoved, oldBest, oldHasBest)
	return nil
}
