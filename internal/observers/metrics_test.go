package observers

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitcex/itchbook/internal/book"
)

func TestMetricsObserverCountsOrdersAndTopChanges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsObserver(reg)
	b := book.NewBook(42, m)

	require.NoError(t, b.AddOrder(1, book.Buy, 100, 10))
	require.NoError(t, b.AddOrder(2, book.Buy, 90, 5))
	require.NoError(t, b.DeleteOrder(1))

	assert.Equal(t, float64(2), counterValue(t, m.ordersAdded.WithLabelValues("42")))
	assert.Equal(t, float64(1), counterValue(t, m.ordersDeleted.WithLabelValues("42")))
	assert.Equal(t, float64(1), counterValue(t, m.levelsClosed.WithLabelValues("42")))
	// First add opens the best bid, the worse-priced add leaves it, and
	// deleting order 1 moves it to 90.
	assert.Equal(t, float64(2), counterValue(t, m.topOfBookMoves.WithLabelValues("42")))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
