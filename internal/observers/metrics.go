// Package observers provides book.ObserverInterface implementations that
// forward book state transitions to external sinks — a dashboard over
// WebSocket, a Redis pub/sub channel, and a Kafka topic — plus a
// Prometheus-backed counter set for the HTTP /metrics surface.
package observers

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orbitcex/itchbook/internal/book"
)

// MetricsObserver counts book operations as Prometheus counters, labeled
// by symbol so per-instrument throughput is queryable.
type MetricsObserver struct {
	book.NullObserver

	ordersAdded    *prometheus.CounterVec
	ordersDeleted  *prometheus.CounterVec
	levelsOpened   *prometheus.CounterVec
	levelsClosed   *prometheus.CounterVec
	executions     *prometheus.CounterVec
	topOfBookMoves *prometheus.CounterVec
}

func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	m := &MetricsObserver{
		ordersAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_orders_added_total",
			Help: "Orders added to the book, by symbol.",
		}, []string{"symbol"}),
		ordersDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_orders_removed_total",
			Help: "Orders removed from the book by delete or full reduce, by symbol (executions are counted in itchbook_executions_total).",
		}, []string{"symbol"}),
		levelsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_levels_opened_total",
			Help: "Price levels opened, by symbol.",
		}, []string{"symbol"}),
		levelsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_levels_closed_total",
			Help: "Price levels closed, by symbol.",
		}, []string{"symbol"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_executions_total",
			Help: "Order executions processed, by symbol.",
		}, []string{"symbol"}),
		topOfBookMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itchbook_top_of_book_changes_total",
			Help: "Book updates that changed the top of book, by symbol.",
		}, []string{"symbol"}),
	}
	reg.MustRegister(m.ordersAdded, m.ordersDeleted, m.levelsOpened, m.levelsClosed, m.executions, m.topOfBookMoves)
	return m
}

func (m *MetricsObserver) OnAddOrder(o *book.Order) {
	m.ordersAdded.WithLabelValues(symbolLabel(o.Symbol)).Inc()
}

func (m *MetricsObserver) OnDeleteOrder(o *book.Order) {
	m.ordersDeleted.WithLabelValues(symbolLabel(o.Symbol)).Inc()
}

func (m *MetricsObserver) OnAddLevel(b *book.Book, _ *book.Level, _ bool) {
	m.levelsOpened.WithLabelValues(symbolLabel(b.Symbol)).Inc()
}

func (m *MetricsObserver) OnDeleteLevel(b *book.Book, _ *book.Level, _ bool) {
	m.levelsClosed.WithLabelValues(symbolLabel(b.Symbol)).Inc()
}

func (m *MetricsObserver) OnExecuteOrder(o *book.Order, _, _ uint32) {
	m.executions.WithLabelValues(symbolLabel(o.Symbol)).Inc()
}

func (m *MetricsObserver) OnUpdateBook(b *book.Book, topChanged bool, symbol uint16) {
	if topChanged {
		m.topOfBookMoves.WithLabelValues(symbolLabel(symbol)).Inc()
	}
}

func symbolLabel(symbol uint16) string {
	return formatSymbol(symbol)
}
