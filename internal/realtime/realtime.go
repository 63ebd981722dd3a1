// Package realtime pushes events to connected clients over private,
// per-user channels. Delivery is best effort: an event published to a
// channel nobody is subscribed to is dropped.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ChannelPrefix scopes every per-recipient channel
const ChannelPrefix = "messages."

// ChannelFor names the private channel owned by userID
func ChannelFor(userID string) string {
	return ChannelPrefix + userID
}

// Authorize reports whether userID may subscribe to channel. A user may only
// listen on their own channel.
func Authorize(userID, channel string) bool {
	if userID == "" || !strings.HasPrefix(channel, ChannelPrefix) {
		return false
	}
	return channel == ChannelFor(userID)
}

// Event is a named payload. Payload must be JSON encodable.
type Event struct {
	Name    string
	Payload interface{}
}

// Envelope is the wire form used by the websocket hub and the redis relay
type Envelope struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

func encodeEnvelope(channel string, ev Event) ([]byte, error) {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: ev.Name, Channel: channel, Data: data})
}

// Publisher delivers an event to whoever currently listens on channel
type Publisher interface {
	Publish(ctx context.Context, channel string, ev Event) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, channel string, ev Event) error

func (f PublisherFunc) Publish(ctx context.Context, channel string, ev Event) error {
	return f(ctx, channel, ev)
}

// Authenticator resolves a bearer token to a user id
type Authenticator func(token string) (string, error)

// MultiPublisher publishes to every transport. It fails only when all of
// them fail, returning the joined errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, channel string, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, channel, ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) == len(m) {
		return errors.Join(errs...)
	}
	return nil
}
