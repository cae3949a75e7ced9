package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/orbitcex/itchbook/internal/book"
)

// TracedDispatch wraps BookRegistry.Dispatch in a span tagged with the
// symbol and operation name, so a slow message in a replay can be
// attributed to a specific book operation without instrumenting Book
// itself — tracing stays an ambient concern, not a core one.
func TracedDispatch(ctx context.Context, reg *book.BookRegistry, symbol uint16, opName string, op func(b *book.Book) error) error {
	_, span := Tracer().Start(ctx, "book.dispatch."+opName,
		oteltrace.WithAttributes(attribute.String("symbol", strconv.FormatUint(uint64(symbol), 10))),
	)
	defer span.End()

	err := reg.Dispatch(symbol, op)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
