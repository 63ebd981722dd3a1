package testutil

import (
	"context"
	"sync"

	"github.com/pushp314/devconnect-chat/internal/realtime"
)

// Published is one captured Publish call
type Published struct {
	Channel string
	Event   realtime.Event
}

// Publisher records every publish. Set Err to simulate a transport outage.
type Publisher struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (p *Publisher) Publish(ctx context.Context, channel string, ev realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, Published{Channel: channel, Event: ev})
	return nil
}

func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.events...)
}
