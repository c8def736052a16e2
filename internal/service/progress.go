package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/config"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
)

// RedisProgress publishes batch progress on the batch's Redis channel.
type RedisProgress struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisProgress(rdb *redis.Client, log zerolog.Logger) *RedisProgress {
	return &RedisProgress{rdb: rdb, log: log.With().Str("component", "progress").Logger()}
}

// Publish is fire-and-forget; a lost event never fails the batch.
func (p *RedisProgress) Publish(ctx context.Context, ev ws.ProgressEvent) {
	if ev.BatchID == "" {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := p.rdb.Publish(context.WithoutCancel(ctx), config.CacheKey.BatchProgressChannel(ev.BatchID), data).Err(); err != nil {
		p.log.Debug().Err(err).Str("batch_id", ev.BatchID).Msg("Failed to publish progress")
	}
}

// Subscribe streams raw progress messages for a batch until ctx is done or the
// returned cancel func is called.
func (p *RedisProgress) Subscribe(ctx context.Context, batchID string) (<-chan []byte, func(), error) {
	sub := p.rdb.Subscribe(ctx, config.CacheKey.BatchProgressChannel(batchID))
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe batch %s: %w", batchID, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }, nil
}
