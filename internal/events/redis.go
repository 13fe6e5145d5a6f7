package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisSink pushes stage events onto a Redis list, one JSON document per
// event, for offline analysis.
type RedisSink struct {
	client *redis.Client
	queue  string
	log    zerolog.Logger
}

// NewRedisSink connects to Redis and verifies the connection with a ping.
func NewRedisSink(addr, queue string, log zerolog.Logger) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info().Str("addr", addr).Str("queue", queue).Msg("stage event sink ready")
	return &RedisSink{client: client, queue: queue, log: log}, nil
}

// Record implements Sink. Failures are logged and dropped.
func (s *RedisSink) Record(ctx context.Context, ev StageEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Warn().Err(err).Msg("marshal stage event")
		return
	}
	if err := s.client.RPush(ctx, s.queue, string(data)).Err(); err != nil {
		s.log.Warn().Err(err).Str("stage", ev.Stage).Msg("enqueue stage event")
	}
}

// Close releases the Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
