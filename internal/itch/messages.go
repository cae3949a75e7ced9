// Package itch decodes a NASDAQ TotalView-ITCH 5.0 byte stream into the
// typed events internal/book's operations expect. Byte-level framing is
// the only concern here; book semantics live entirely in internal/book.
package itch

// Kind identifies which ITCH 5.0 message an Event carries.
type Kind uint8

const (
	KindSystemEvent Kind = iota
	KindStockDirectory
	KindStockTradingAction
	KindRegSHO
	KindMarketParticipantPosition
	KindMWCBDecline
	KindMWCBStatus
	KindIPOQuoting
	KindAddOrder
	KindAddOrderMPID
	KindOrderExecuted
	KindOrderExecutedWithPrice
	KindOrderCancel
	KindOrderDelete
	KindOrderReplace
	KindTrade
	KindCrossTrade
	KindBrokenTrade
	KindNOII
	KindRPII
	KindLULDAuctionCollar
)

func (k Kind) String() string {
	switch k {
	case KindSystemEvent:
		return "SystemEvent"
	case KindStockDirectory:
		return "StockDirectory"
	case KindStockTradingAction:
		return "StockTradingAction"
	case KindRegSHO:
		return "RegSHO"
	case KindMarketParticipantPosition:
		return "MarketParticipantPosition"
	case KindMWCBDecline:
		return "MWCBDecline"
	case KindMWCBStatus:
		return "MWCBStatus"
	case KindIPOQuoting:
		return "IPOQuoting"
	case KindAddOrder:
		return "AddOrder"
	case KindAddOrderMPID:
		return "AddOrderMPID"
	case KindOrderExecuted:
		return "OrderExecuted"
	case KindOrderExecutedWithPrice:
		return "OrderExecutedWithPrice"
	case KindOrderCancel:
		return "OrderCancel"
	case KindOrderDelete:
		return "OrderDelete"
	case KindOrderReplace:
		return "OrderReplace"
	case KindTrade:
		return "Trade"
	case KindCrossTrade:
		return "CrossTrade"
	case KindBrokenTrade:
		return "BrokenTrade"
	case KindNOII:
		return "NOII"
	case KindRPII:
		return "RPII"
	case KindLULDAuctionCollar:
		return "LULDAuctionCollar"
	default:
		return "Unknown"
	}
}

// Event is the decoded form of one ITCH message. Payload holds one of the
// typed structs below depending on Kind; non-order messages that the core
// only counts carry a nil Payload.
type Event struct {
	Kind        Kind
	StockLocate uint16
	Payload     any
}

// StockDirectory announces a new listed instrument.
type StockDirectory struct {
	Stock string `validate:"required,max=8"`
}

// AddOrder is the plain and MPID-attributed new-order message. MPID
// metadata is decoded but discarded, per spec.md §9 Open Question 2 — there
// is no consumer in this engine for market-participant attribution.
// Side is a byte, so its oneof rule lists the ASCII codes of 'B' (66) and
// 'S' (83): the validator compares integer fields by numeric value.
type AddOrder struct {
	OrderRef uint64 `validate:"required"`
	Side     byte   `validate:"oneof=66 83"`
	Shares   uint32 `validate:"gt=0"`
	Price    uint32 `validate:"gt=0"`
	MPID     string
}

// OrderExecuted is the plain and price-bearing execution message.
// ExecutionPrice is only meaningful when HasPrice is true.
type OrderExecuted struct {
	OrderRef       uint64 `validate:"required"`
	Shares         uint32 `validate:"gt=0"`
	HasPrice       bool
	ExecutionPrice uint32
}

// OrderCancel is a partial cancellation ("reduce") of a resting order.
type OrderCancel struct {
	OrderRef uint64 `validate:"required"`
	Shares   uint32 `validate:"gt=0"`
}

// OrderDelete removes a resting order outright.
type OrderDelete struct {
	OrderRef uint64 `validate:"required"`
}

// OrderReplace retires OldOrderRef and creates NewOrderRef in its place.
type OrderReplace struct {
	OldOrderRef uint64 `validate:"required"`
	NewOrderRef uint64 `validate:"required,nefield=OldOrderRef"`
	Shares      uint32 `validate:"gt=0"`
	Price       uint32 `validate:"gt=0"`
}
