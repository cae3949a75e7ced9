// Command itchbook replays a NASDAQ TotalView-ITCH 5.0 byte stream from a
// file or stdin, reconstructs every symbol's order book, and fans the
// resulting level and top-of-book updates out to whichever sinks are
// configured — Prometheus, a WebSocket dashboard, Redis, Kafka — before
// printing the same summary report shape the original CppTrader sample
// tool does.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/book"
	"github.com/orbitcex/itchbook/internal/config"
	"github.com/orbitcex/itchbook/internal/httpapi"
	"github.com/orbitcex/itchbook/internal/itch"
	"github.com/orbitcex/itchbook/internal/observers"
	"github.com/orbitcex/itchbook/internal/telemetry"
	"github.com/orbitcex/itchbook/pkg/logger"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "path to an ITCH 5.0 message file; stdin if omitted")
		noTrace     = flag.Bool("no-trace", false, "disable OpenTelemetry span emission")
		tracePretty = flag.Bool("trace-pretty", false, "pretty-print trace spans to stdout")
	)
	flag.Parse()

	cfg := config.Load()
	baseLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer baseLogger.Sync()

	// Every run gets its own correlation id, so a replay's log lines, trace
	// spans, and streamed observer output can all be tied back to the same
	// invocation even when several runs' output is interleaved downstream.
	runID := uuid.New().String()
	zapLogger := baseLogger.With(zap.String("run_id", runID))
	zapLogger.Info("starting replay", zap.String("input", *inputPath))

	reg := prometheus.NewRegistry()
	metricsObs := observers.NewMetricsObserver(reg)
	counting := &book.CountingObserver{}

	multi := book.MultiObserver{counting, metricsObs}

	hub := observers.NewWebSocketHub(zapLogger)
	multi = append(multi, observers.NewWebSocketObserver(hub))

	if cfg.KafkaBrokerList() != nil {
		kafkaObs := observers.NewKafkaObserver(cfg.KafkaBrokerList(), cfg.KafkaTopic, zapLogger)
		defer kafkaObs.Close()
		multi = append(multi, kafkaObs)
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		multi = append(multi, observers.NewRedisObserver(redisClient, cfg.RedisPrefix, zapLogger))
	}

	registry := book.NewBookRegistry(multi)

	if !cfg.TraceDisabled && !*noTrace {
		shutdown, err := telemetry.Setup(cfg.TracePretty || *tracePretty)
		if err != nil {
			zapLogger.Warn("tracing disabled: setup failed", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					zapLogger.Warn("trace shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	srv := httpapi.New(zapLogger, reg, hub)
	go func() {
		if err := srv.Run(cfg.HTTPAddr); err != nil {
			zapLogger.Warn("http server stopped", zap.Error(err))
		}
	}()

	input := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			zapLogger.Fatal("failed to open input", zap.String("path", *inputPath), zap.Error(err))
		}
		defer f.Close()
		input = f
	}

	start := time.Now()
	dec := itch.NewDecoder(input)
	ctx := context.Background()

	runErr := dec.Run(func(ev itch.Event) error {
		return dispatch(ctx, registry, ev, zapLogger)
	})
	elapsed := time.Since(start)

	if runErr != nil && runErr != io.EOF {
		zapLogger.Error("replay aborted", zap.Error(runErr))
	}
	if dec.ParseErrors > 0 {
		zapLogger.Warn("stream contained malformed frames", zap.Uint64("parse_errors", dec.ParseErrors))
	}

	printSummary(os.Stdout, dec, counting, elapsed, runID)
}

// dispatch converts a decoded event into the corresponding Book operation
// and routes it through the registry. Events the core only counts
// (SystemEvent, Trade, NOII, ...) are acknowledged but not dispatched.
func dispatch(ctx context.Context, reg *book.BookRegistry, ev itch.Event, log *zap.Logger) error {
	switch ev.Kind {
	case itch.KindStockDirectory:
		reg.AddSymbol(ev.StockLocate)
		return nil

	case itch.KindAddOrder, itch.KindAddOrderMPID:
		p := ev.Payload.(*itch.AddOrder)
		side := book.Sell
		if p.Side == 'B' {
			side = book.Buy
		}
		return tracedDispatch(ctx, reg, ev.StockLocate, "add_order", log, func(b *book.Book) error {
			return b.AddOrder(p.OrderRef, side, p.Price, p.Shares)
		})

	case itch.KindOrderExecuted:
		p := ev.Payload.(*itch.OrderExecuted)
		return tracedDispatch(ctx, reg, ev.StockLocate, "execute_order", log, func(b *book.Book) error {
			return b.ExecuteOrder(p.OrderRef, p.Shares)
		})

	case itch.KindOrderExecutedWithPrice:
		p := ev.Payload.(*itch.OrderExecuted)
		return tracedDispatch(ctx, reg, ev.StockLocate, "execute_order_at_price", log, func(b *book.Book) error {
			return b.ExecuteOrderAtPrice(p.OrderRef, p.Shares, p.ExecutionPrice)
		})

	case itch.KindOrderCancel:
		p := ev.Payload.(*itch.OrderCancel)
		return tracedDispatch(ctx, reg, ev.StockLocate, "reduce_order", log, func(b *book.Book) error {
			return b.ReduceOrder(p.OrderRef, p.Shares)
		})

	case itch.KindOrderDelete:
		p := ev.Payload.(*itch.OrderDelete)
		return tracedDispatch(ctx, reg, ev.StockLocate, "delete_order", log, func(b *book.Book) error {
			return b.DeleteOrder(p.OrderRef)
		})

	case itch.KindOrderReplace:
		p := ev.Payload.(*itch.OrderReplace)
		return tracedDispatch(ctx, reg, ev.StockLocate, "replace_order", log, func(b *book.Book) error {
			return b.ReplaceOrder(p.OldOrderRef, p.NewOrderRef, p.Price, p.Shares)
		})

	default:
		// SystemEvent, StockTradingAction, RegSHO, MarketParticipantPosition,
		// MWCBDecline/Status, IPOQuoting, Trade, CrossTrade, BrokenTrade,
		// NOII, RPII, LULDAuctionCollar: counted by the decoder, no book effect.
		return nil
	}
}

// tracedDispatch always routes through telemetry.TracedDispatch; when
// tracing was never set up the global tracer provider is a no-op, so that
// degrades to a thin wrapper around Dispatch at negligible cost.
func tracedDispatch(ctx context.Context, reg *book.BookRegistry, symbol uint16, op string, log *zap.Logger, fn func(b *book.Book) error) error {
	err := telemetry.TracedDispatch(ctx, reg, symbol, op, fn)
	// Protocol violations (unknown symbol/order, duplicate id) are expected
	// traffic in a replay; log and move on rather than aborting the run.
	switch err {
	case book.ErrUnknownSymbol, book.ErrUnknownOrder, book.ErrDuplicateOrder, book.ErrNewOrderExists, book.ErrInvalidQuantity:
		log.Info("protocol violation skipped", zap.Uint16("symbol", symbol), zap.String("op", op), zap.Error(err))
		return nil
	default:
		return err
	}
}

func printSummary(w io.Writer, dec *itch.Decoder, c *book.CountingObserver, elapsed time.Duration, runID string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run: %s\n", runID)
	fmt.Fprintf(w, "Parse errors: %d\n", dec.ParseErrors)
	fmt.Fprintln(w)

	totalMessages := dec.Messages
	totalUpdates := uint64(c.AddOrder + c.UpdateOrder + c.DeleteOrder + c.Executions)

	fmt.Fprintf(w, "Processing time: %s\n", elapsed)
	fmt.Fprintf(w, "Total ITCH messages: %d\n", totalMessages)
	if totalMessages > 0 {
		fmt.Fprintf(w, "ITCH message latency: %s\n", elapsed/time.Duration(totalMessages))
		fmt.Fprintf(w, "ITCH message throughput: %.0f msg/s\n", float64(totalMessages)/elapsed.Seconds())
	}
	fmt.Fprintf(w, "Total market updates: %d\n", totalUpdates)
	if totalUpdates > 0 {
		fmt.Fprintf(w, "Market update latency: %s\n", elapsed/time.Duration(totalUpdates))
		fmt.Fprintf(w, "Market update throughput: %.0f upd/s\n", float64(totalUpdates)/elapsed.Seconds())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Order statistics:")
	fmt.Fprintf(w, "Add order operations: %d\n", c.AddOrder)
	fmt.Fprintf(w, "Update order operations: %d\n", c.UpdateOrder)
	fmt.Fprintf(w, "Delete order operations: %d\n", c.DeleteOrder)
	fmt.Fprintf(w, "Execute order operations: %d\n", c.Executions)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Book statistics:")
	fmt.Fprintf(w, "Symbols announced: %d\n", c.AddSymbol)
	fmt.Fprintf(w, "Levels opened: %d\n", c.AddLevel)
	fmt.Fprintf(w, "Levels closed: %d\n", c.DeleteLevel)
	fmt.Fprintf(w, "Top-of-book changes: %d\n", c.TopChanges)
}
