package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher hands events to redis so that every API instance can
// deliver them to its own connections. See RedisRelay.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, ev Event) error {
	data, err := encodeEnvelope(channel, ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.prefix+channel, data).Err()
}

// RedisRelay forwards envelopes received from redis to local transports
type RedisRelay struct {
	client redis.UniversalClient
	prefix string
	local  Publisher
	sub    *redis.PubSub
	log    zerolog.Logger
}

func NewRedisRelay(client redis.UniversalClient, prefix string, local Publisher) *RedisRelay {
	return &RedisRelay{
		client: client,
		prefix: prefix,
		local:  local,
		log:    logger.Component("redis_relay"),
	}
}

// Subscribe blocks until redis confirms the pattern subscription
func (r *RedisRelay) Subscribe(ctx context.Context) error {
	r.sub = r.client.PSubscribe(ctx, r.prefix+ChannelPrefix+"*")
	if _, err := r.sub.Receive(ctx); err != nil {
		r.sub.Close()
		r.sub = nil
		return err
	}
	return nil
}

// Run forwards messages until ctx is cancelled. Subscribe must succeed first.
func (r *RedisRelay) Run(ctx context.Context) error {
	if r.sub == nil {
		return errors.New("redis relay: Run called before Subscribe")
	}
	defer r.sub.Close()

	ch := r.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(ctx, msg)
		}
	}
}

func (r *RedisRelay) forward(ctx context.Context, msg *redis.Message) {
	var env Envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		r.log.Warn().Err(err).Str("redis_channel", msg.Channel).Msg("Dropping malformed envelope")
		return
	}
	if err := r.local.Publish(ctx, env.Channel, Event{Name: env.Event, Payload: env.Data}); err != nil {
		r.log.Warn().Err(err).Str("channel", env.Channel).Msg("Local delivery failed")
	}
}
