package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event names double as redis channel names so consumers can subscribe to
// exactly the lifecycle steps they care about.
const (
	EventMatchNew    = "match.new"
	EventMatchAction = "match.action"
	EventMatchResult = "match.result"
	EventMatchVerify = "match.verify"
)

// Payload is the wire format for every match lifecycle event.
type Payload struct {
	MatchID string `json:"matchId"`
	Action  string `json:"action,omitempty"`
}

type Emitter interface {
	Emit(ctx context.Context, event string, payload Payload) error
}

// RedisEmitter publishes each event as JSON to the channel named after the
// event.
type RedisEmitter struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisEmitter(rdb *redis.Client, logger *zap.Logger) *RedisEmitter {
	return &RedisEmitter{rdb: rdb, logger: logger}
}

func (e *RedisEmitter) Emit(ctx context.Context, event string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := e.rdb.Publish(ctx, event, data).Err(); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("event", event),
			zap.String("matchId", payload.MatchID),
			zap.Error(err))
		return err
	}
	e.logger.Debug("published event",
		zap.String("event", event),
		zap.String("matchId", payload.MatchID),
		zap.String("action", payload.Action))
	return nil
}

// NopEmitter drops all events. Used in tests and when redis is not
// configured.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, Payload) error { return nil }
