package book

import "github.com/orbitcex/itchbook/internal/pool"

// Level holds every resting order at one price on one side, in arrival
// order. Head/Tail are Order handles; the FIFO is threaded through
// Order.Prev/Order.Next so queue operations never allocate.
type Level struct {
	Side        Side
	Price       uint32
	TotalVolume uint64
	OrderCount  int
	Head, Tail  pool.Handle
}

// AddOrder appends the order at handle oh to the FIFO tail. self is this
// Level's own handle, stamped onto the order's back-reference.
func (lv *Level) AddOrder(orders *pool.Arena[Order], self, oh pool.Handle) {
	o := orders.Get(oh)
	o.Level = self
	o.Prev = pool.NilHandle
	o.Next = pool.NilHandle

	if lv.Tail == pool.NilHandle {
		lv.Head = oh
	} else {
		orders.Get(lv.Tail).Next = oh
		o.Prev = lv.Tail
	}
	lv.Tail = oh

	lv.TotalVolume += uint64(o.Quantity)
	lv.OrderCount++
}

func (lv *Level) unlink(orders *pool.Arena[Order], oh pool.Handle) {
	o := orders.Get(oh)
	if o.Prev != pool.NilHandle {
		orders.Get(o.Prev).Next = o.Next
	} else {
		lv.Head = o.Next
	}
	if o.Next != pool.NilHandle {
		orders.Get(o.Next).Prev = o.Prev
	} else {
		lv.Tail = o.Prev
	}
	o.Prev = pool.NilHandle
	o.Next = pool.NilHandle
}

// ReduceOrder decrements the order's quantity by qty (caller must ensure
// qty <= order.Quantity) and TotalVolume to match. It unlinks the order
// from the FIFO once its quantity reaches zero and reports whether that
// happened; the caller (Book) owns releasing the slot and erasing the id.
func (lv *Level) ReduceOrder(orders *pool.Arena[Order], oh pool.Handle, qty uint32) (emptied bool) {
	o := orders.Get(oh)
	o.Quantity -= qty
	lv.TotalVolume -= uint64(qty)
	if o.Quantity == 0 {
		lv.unlink(orders, oh)
		lv.OrderCount--
		return true
	}
	return false
}

// DeleteOrder removes the order from the FIFO unconditionally, independent
// of its remaining quantity.
func (lv *Level) DeleteOrder(orders *pool.Arena[Order], oh pool.Handle) {
	o := orders.Get(oh)
	lv.TotalVolume -= uint64(o.Quantity)
	lv.unlink(orders, oh)
	lv.OrderCount--
}
