package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recorder captures published events for assertions
type recorder struct {
	mu     sync.Mutex
	events []published
	err    error
}

type published struct {
	Channel string
	Event   Event
}

func (r *recorder) Publish(ctx context.Context, channel string, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, published{Channel: channel, Event: ev})
	return nil
}

func (r *recorder) snapshot() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "messages.42", ChannelFor("42"))
}

func TestAuthorize(t *testing.T) {
	assert.True(t, Authorize("u1", "messages.u1"))
	assert.False(t, Authorize("u1", "messages.u2"))
	assert.False(t, Authorize("", "messages."))
	assert.False(t, Authorize("u1", "presence"))
	assert.False(t, Authorize("u1", "messages.u1.extra"))
}

func TestMultiPublisher(t *testing.T) {
	ctx := context.Background()
	ev := Event{Name: "MessageReceived", Payload: map[string]string{"message": "hi"}}

	t.Run("any success is success", func(t *testing.T) {
		ok := &recorder{}
		broken := &recorder{err: errors.New("down")}

		err := MultiPublisher{broken, ok}.Publish(ctx, "messages.u2", ev)
		assert.NoError(t, err)
		assert.Len(t, ok.snapshot(), 1)
	})

	t.Run("all failing joins errors", func(t *testing.T) {
		a := &recorder{err: errors.New("socket down")}
		b := &recorder{err: errors.New("hub down")}

		err := MultiPublisher{a, b}.Publish(ctx, "messages.u2", ev)
		assert.ErrorContains(t, err, "socket down")
		assert.ErrorContains(t, err, "hub down")
	})

	t.Run("empty publisher is a no-op", func(t *testing.T) {
		assert.NoError(t, MultiPublisher{}.Publish(ctx, "messages.u2", ev))
	})
}

func TestPublisherFunc(t *testing.T) {
	var got string
	p := PublisherFunc(func(ctx context.Context, channel string, ev Event) error {
		got = channel + "/" + ev.Name
		return nil
	})

	assert.NoError(t, p.Publish(context.Background(), "messages.7", Event{Name: "MessageReceived"}))
	assert.Equal(t, "messages.7/MessageReceived", got)
}
