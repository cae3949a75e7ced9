package observers

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/book"
)

// KafkaObserver publishes the new top of book to a single Kafka topic each
// time a book-changed callback reports a top change, keyed by symbol so a
// partitioned consumer group preserves per-symbol ordering downstream.
type KafkaObserver struct {
	book.NullObserver

	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaObserver(brokers []string, topic string, log *zap.Logger) *KafkaObserver {
	return &KafkaObserver{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		log: log,
	}
}

func (o *KafkaObserver) Close() error {
	return o.writer.Close()
}

func (o *KafkaObserver) OnUpdateBook(b *book.Book, topChanged bool, symbol uint16) {
	if !topChanged {
		return
	}
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	msg := struct {
		Symbol   uint16 `json:"symbol"`
		Bid      uint32 `json:"bid,omitempty"`
		BidUSD   string `json:"bidUsd,omitempty"`
		Ask      uint32 `json:"ask,omitempty"`
		AskUSD   string `json:"askUsd,omitempty"`
		HasBid   bool   `json:"hasBid"`
		HasAsk   bool   `json:"hasAsk"`
	}{Symbol: symbol, Bid: bid, Ask: ask, HasBid: hasBid, HasAsk: hasAsk}
	if hasBid {
		msg.BidUSD = formatPrice(bid)
	}
	if hasAsk {
		msg.AskUSD = formatPrice(ask)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	err = o.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   symbolKey(symbol),
		Value: payload,
	})
	if err != nil {
		o.log.Warn("kafka publish failed", zap.Uint16("symbol", symbol), zap.Error(err))
	}
}

func symbolKey(symbol uint16) []byte {
	return []byte(formatSymbol(symbol))
}
