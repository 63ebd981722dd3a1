package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenIsUserID treats the raw token as the user id; "bad" is rejected
func tokenIsUserID(token string) (string, error) {
	if token == "bad" {
		return "", errors.New("invalid")
	}
	return token, nil
}

func newHubServer(t *testing.T) (*Hub, string) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)

	r := gin.New()
	r.GET("/ws", hub.Handler(tokenIsUserID))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDeliversOnlyOwnChannel(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url+"?token=u2")

	assert.Eventually(t, func() bool { return hub.Subscribers("messages.u2") == 1 }, time.Second, 10*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, "messages.u3", Event{Name: "MessageReceived", Payload: map[string]string{"message": "not yours"}}))
	require.NoError(t, hub.Publish(ctx, "messages.u2", Event{Name: "MessageReceived", Payload: map[string]string{"message": "hi", "id": "u2", "who": "Alice"}}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))

	assert.Equal(t, "MessageReceived", env.Event)
	assert.Equal(t, "messages.u2", env.Channel)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "hi", payload["message"])
	assert.Equal(t, "Alice", payload["who"])
}

func TestHubRejectsUnauthenticated(t *testing.T) {
	_, url := newHubServer(t)

	for _, q := range []string{"", "?token=bad"} {
		_, resp, err := websocket.DefaultDialer.Dial(url+q, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	err := hub.Publish(context.Background(), "messages.nobody", Event{Name: "MessageReceived", Payload: "x"})
	assert.NoError(t, err)
	assert.Equal(t, 0, hub.Subscribers("messages.nobody"))
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url+"?token=u9")

	assert.Eventually(t, func() bool { return hub.Subscribers("messages.u9") == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers("messages.u9") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubPublishHonoursCancelledContext(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.Publish(ctx, "messages.u1", Event{Name: "MessageReceived"})
	assert.ErrorIs(t, err, context.Canceled)
}
