package observers

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/orbitcex/itchbook/internal/book"
)

func formatSymbol(symbol uint16) string {
	return strconv.FormatUint(uint64(symbol), 10)
}

// priceScale is ITCH's fixed-point denominator: price ticks are 1/10000 of
// a dollar.
var priceScale = decimal.New(1, -4)

// formatPrice renders a raw price tick as an exact decimal string. A plain
// float64 division would round; decimal.Decimal carries the tick count as
// an arbitrary-precision integer times priceScale, so the string is exact
// for every representable ITCH price.
func formatPrice(ticks uint32) string {
	return decimal.NewFromInt(int64(ticks)).Mul(priceScale).StringFixed(4)
}

// LevelUpdate is the wire shape every streaming observer emits on an
// add/update/delete level callback — the external, serializable sibling of
// the in-process book.ObserverInterface callback.
type LevelUpdate struct {
	Symbol      uint16 `json:"symbol"`
	Side        string `json:"side"`
	Price       uint32 `json:"price"`
	PriceUSD    string `json:"priceUsd"`
	TotalVolume uint64 `json:"totalVolume"`
	OrderCount  int    `json:"orderCount"`
	Kind        string `json:"kind"`
	Top         bool   `json:"top"`
}

func buildLevelUpdate(b *book.Book, lv *book.Level, kind string, top bool) LevelUpdate {
	return LevelUpdate{
		Symbol:      b.Symbol,
		Side:        lv.Side.String(),
		Price:       lv.Price,
		PriceUSD:    formatPrice(lv.Price),
		TotalVolume: lv.TotalVolume,
		OrderCount:  lv.OrderCount,
		Kind:        kind,
		Top:         top,
	}
}
