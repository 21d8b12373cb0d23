package bus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrTransportUnavailable means the publish call itself could not reach
// the transport. It says nothing about subscriber delivery.
var ErrTransportUnavailable = errors.New("event bus transport unavailable")

// Publisher broadcasts a named event with a payload to a logical channel.
// Delivery is at-most-once per current subscriber and is never
// acknowledged back; retry policy, if any, belongs to the caller.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

// Envelope is the wire shape for every bus message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type redisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, logger *zap.Logger) Publisher {
	return &redisPublisher{client: client, logger: logger}
}

func (p *redisPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	if p.client == nil {
		return ErrTransportUnavailable
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, channel, msg).Err(); err != nil {
		p.logger.Warn("bus publish failed",
			zap.String("channel", channel),
			zap.String("event", event),
			zap.Error(err))
		return ErrTransportUnavailable
	}
	return nil
}
