package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/rs/zerolog"
)

const rootNamespace = "/"

var errSocketClosed = errors.New("socket.io server is not running")

// SocketServer is the socket.io transport. Every authenticated connection is
// joined to its own private channel and nothing else.
type SocketServer struct {
	server *socketio.Server
	auth   Authenticator
	log    zerolog.Logger
}

// NewSocketServer builds the socket.io server. allowOrigin nil accepts any origin.
func NewSocketServer(auth Authenticator, allowOrigin func(r *http.Request) bool) *SocketServer {
	if allowOrigin == nil {
		allowOrigin = func(r *http.Request) bool { return true }
	}

	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{CheckOrigin: allowOrigin},
			&polling.Transport{CheckOrigin: allowOrigin},
		},
	})

	s := &SocketServer{
		server: server,
		auth:   auth,
		log:    logger.Component("socketio"),
	}

	server.OnConnect(rootNamespace, s.onConnect)

	// Clients may ask for their channel explicitly (e.g. after a reconnect).
	// Any other channel is refused.
	server.OnEvent(rootNamespace, "subscribe", s.onSubscribe)

	server.OnDisconnect(rootNamespace, func(conn socketio.Conn, reason string) {
		userID, _ := conn.Context().(string)
		s.log.Debug().Str("socket_id", conn.ID()).Str("user_id", userID).Str("reason", reason).Msg("Socket closed")
	})

	server.OnError(rootNamespace, func(conn socketio.Conn, err error) {
		s.log.Warn().Err(err).Msg("Socket error")
	})

	return s
}

func (s *SocketServer) onConnect(conn socketio.Conn) error {
	conn.SetContext("")
	u := conn.URL()
	query := u.Query()

	token := query.Get("token")
	if token == "" {
		token = query.Get("auth_token")
	}
	if token == "" {
		s.log.Info().Str("socket_id", conn.ID()).Msg("Socket connection rejected: no token")
		return fmt.Errorf("authentication required")
	}

	userID, err := s.auth(token)
	if err != nil {
		s.log.Info().Str("socket_id", conn.ID()).Msg("Socket connection rejected: invalid token")
		return fmt.Errorf("invalid token")
	}

	conn.SetContext(userID)
	conn.Join(ChannelFor(userID))
	s.log.Debug().Str("socket_id", conn.ID()).Str("user_id", userID).Msg("Socket authenticated")
	return nil
}

func (s *SocketServer) onSubscribe(conn socketio.Conn, channel string) string {
	userID, _ := conn.Context().(string)
	if !Authorize(userID, channel) {
		s.log.Warn().Str("user_id", userID).Str("channel", channel).Msg("Subscription refused")
		return "forbidden"
	}
	conn.Join(channel)
	return "ok"
}

// Publish broadcasts ev to the channel's room. An empty room is not an error.
func (s *SocketServer) Publish(ctx context.Context, channel string, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.server.BroadcastToRoom(rootNamespace, channel, ev.Name, ev.Payload) {
		return errSocketClosed
	}
	return nil
}

// Subscribers returns the number of sockets in channel
func (s *SocketServer) Subscribers(channel string) int {
	return s.server.RoomLen(rootNamespace, channel)
}

// Serve runs the engine.io loop; call it in its own goroutine
func (s *SocketServer) Serve() error {
	return s.server.Serve()
}

func (s *SocketServer) Close() error {
	return s.server.Close()
}

// Handler mounts the server on a gin route
func (s *SocketServer) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.server.ServeHTTP(c.Writer, c.Request)
	}
}
