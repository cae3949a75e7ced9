package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/book"
	"github.com/orbitcex/itchbook/internal/itch"
)

func TestDispatchRoutesAddOrderToRegistry(t *testing.T) {
	reg := book.NewBookRegistry(nil)
	reg.AddSymbol(42)

	ev := itch.Event{
		Kind:        itch.KindAddOrder,
		StockLocate: 42,
		Payload:     &itch.AddOrder{OrderRef: 1, Side: 'B', Shares: 100, Price: 500},
	}
	require.NoError(t, dispatch(context.Background(), reg, ev, zap.NewNop()))

	b, ok := reg.Book(42)
	require.True(t, ok)
	_, ok = b.Order(1)
	assert.True(t, ok)
}

func TestDispatchSwallowsProtocolViolations(t *testing.T) {
	reg := book.NewBookRegistry(nil)
	// No StockDirectory was ever announced for symbol 99: an unknown-symbol
	// dispatch must not abort the replay.
	ev := itch.Event{
		Kind:        itch.KindOrderDelete,
		StockLocate: 99,
		Payload:     &itch.OrderDelete{OrderRef: 1},
	}
	assert.NoError(t, dispatch(context.Background(), reg, ev, zap.NewNop()))
}

func TestDispatchIgnoresCountOnlyKinds(t *testing.T) {
	reg := book.NewBookRegistry(nil)
	ev := itch.Event{Kind: itch.KindTrade, StockLocate: 7}
	assert.NoError(t, dispatch(context.Background(), reg, ev, zap.NewNop()))
}

func TestPrintSummaryReportsOrderAndBookCounts(t *testing.T) {
	dec := itch.NewDecoder(strings.NewReader(""))
	dec.Messages = 10
	dec.ParseErrors = 2

	c := &book.CountingObserver{AddOrder: 3, DeleteOrder: 1, AddLevel: 2, TopChanges: 1}

	var buf bytes.Buffer
	printSummary(&buf, dec, c, 0, "test-run-id")

	out := buf.String()
	assert.Contains(t, out, "Parse errors: 2")
	assert.Contains(t, out, "Total ITCH messages: 10")
	assert.Contains(t, out, "Add order operations: 3")
	assert.Contains(t, out, "Top-of-book changes: 1")
}
