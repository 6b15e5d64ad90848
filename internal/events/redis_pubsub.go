package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher sends events to redis pub/sub channels named after the
// stream, so the api, worker and notify-bridge processes share one feed.
type RedisPublisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: log}
}

// Publish reports how many subscribers received the event at debug level.
// Zero receivers is not an error.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	receivers, err := p.rdb.Publish(ctx, stream, body).Result()
	if err != nil {
		p.log.Warn("event publish failed",
			zap.String("stream", stream),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return fmt.Errorf("publish %s to %s: %w", event.Type, stream, err)
	}
	p.log.Debug("event published",
		zap.String("stream", stream),
		zap.String("type", event.Type),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// RedisSubscriber opens one redis subscription per Subscribe call.
type RedisSubscriber struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisSubscriber(rdb *redis.Client, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{rdb: rdb, log: log}
}

// Subscribe returns once redis has confirmed the subscription; events
// published after that are delivered. Malformed payloads are logged and
// skipped, and a panicking handler does not stop the subscription.
func (s *RedisSubscriber) Subscribe(ctx context.Context, stream string, handler func(Event)) error {
	sub := s.rdb.Subscribe(ctx, stream)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", stream, err)
	}
	messages := sub.Channel(redis.WithChannelSize(memoryBufferSize))

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Warn("dropping malformed event", zap.String("stream", stream), zap.Error(err))
					continue
				}
				dispatch(s.log, stream, event, handler)
			}
		}
	}()

	return nil
}
