package observers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/book"
)

// RedisObserver publishes top-of-book-relevant level transitions to a
// per-symbol Redis pub/sub channel, so any number of downstream consumers
// can subscribe without the book knowing they exist.
type RedisObserver struct {
	book.NullObserver

	client  *redis.Client
	prefix  string
	log     *zap.Logger
	ctx     context.Context
}

func NewRedisObserver(client *redis.Client, channelPrefix string, log *zap.Logger) *RedisObserver {
	return &RedisObserver{client: client, prefix: channelPrefix, log: log, ctx: context.Background()}
}

func (o *RedisObserver) channel(symbol uint16) string {
	return fmt.Sprintf("%s.%d", o.prefix, symbol)
}

func (o *RedisObserver) publish(b *book.Book, lv *book.Level, kind string, top bool) {
	if !top {
		return
	}
	u := buildLevelUpdate(b, lv, kind, top)
	payload, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := o.client.Publish(o.ctx, o.channel(b.Symbol), payload).Err(); err != nil {
		o.log.Warn("redis publish failed", zap.Uint16("symbol", b.Symbol), zap.Error(err))
	}
}

func (o *RedisObserver) OnAddLevel(b *book.Book, lv *book.Level, top bool) {
	o.publish(b, lv, "ADD", top)
}

func (o *RedisObserver) OnUpdateLevel(b *book.Book, lv *book.Level, top bool) {
	o.publish(b, lv, "UPDATE", top)
}

func (o *RedisObserver) OnDeleteLevel(b *book.Book, lv *book.Level, top bool) {
	o.publish(b, lv, "DELETE", top)
}
