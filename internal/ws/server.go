package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-realtime/internal/auth"
	"github.com/fathima-sithara/chat-realtime/internal/registry"
	"github.com/fathima-sithara/chat-realtime/internal/router"
)

// PresenceTracker mirrors connection lifecycle into a shared store so
// other instances can see who is online. Failures never affect routing.
type PresenceTracker interface {
	ConnectionOpened(ctx context.Context, identity, sessionID string) error
	ConnectionClosed(ctx context.Context, identity, sessionID string) error
}

// Options carries the transport tunables from config.
type Options struct {
	PingInterval   time.Duration
	WriteDeadline  time.Duration
	ReadDeadline   time.Duration
	MaxMessageSize int64
	JWTSecret      string
}

// Server accepts websocket connections, binds them to user identities,
// and feeds inbound envelopes to the event router.
type Server struct {
	hub      *Hub
	registry *registry.Registry
	router   *router.Router
	presence PresenceTracker
	opts     Options
	log      *zap.SugaredLogger
}

func NewServer(hub *Hub, reg *registry.Registry, rt *router.Router, presence PresenceTracker, opts Options, log *zap.SugaredLogger) *Server {
	if opts.PingInterval == 0 {
		opts.PingInterval = 25 * time.Second
	}
	if opts.WriteDeadline == 0 {
		opts.WriteDeadline = 10 * time.Second
	}
	if opts.ReadDeadline == 0 {
		opts.ReadDeadline = 60 * time.Second
	}
	if opts.MaxMessageSize == 0 {
		opts.MaxMessageSize = 64 * 1024
	}
	return &Server{
		hub:      hub,
		registry: reg,
		router:   rt,
		presence: presence,
		opts:     opts,
		log:      log,
	}
}

// Handle returns the connection handler for the websocket route.
// Handshake: /ws?userId=<id> or /ws?token=<jwt>. A connection without a
// resolvable identity is accepted but unroutable.
func (s *Server) Handle() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		identity := s.identityFromHandshake(conn)
		sessionID := uuid.NewString()
		client := NewClient(conn, sessionID, identity)

		s.hub.Register(client)
		client.markConnected()
		if identity != "" {
			s.registry.Connect(identity, sessionID)
			s.log.Infow("session bound", "identity", identity, "session", sessionID)
		} else {
			s.log.Warnw("connection has no user identity, unroutable", "session", sessionID)
		}
		if s.presence != nil && identity != "" {
			if err := s.presence.ConnectionOpened(context.Background(), identity, sessionID); err != nil {
				s.log.Warnw("presence open", "identity", identity, "err", err)
			}
		}

		go client.writePump(s.opts.PingInterval, s.opts.WriteDeadline)
		s.readLoop(client)

		// Terminal: exactly one unbind attempt per session.
		s.hub.Unregister(sessionID)
		s.router.Disconnect(sessionID)
		if s.presence != nil && identity != "" {
			if err := s.presence.ConnectionClosed(context.Background(), identity, sessionID); err != nil {
				s.log.Warnw("presence close", "identity", identity, "err", err)
			}
		}
		client.Close()
	}
}

// identityFromHandshake prefers a signed token when one is presented;
// an invalid token counts as no identity, not a rejection.
func (s *Server) identityFromHandshake(conn *websocket.Conn) string {
	if token := conn.Query("token"); token != "" && s.opts.JWTSecret != "" {
		claims, err := auth.ParseAndValidateToken(s.opts.JWTSecret, token)
		if err == nil && claims.UserID != "" {
			return claims.UserID
		}
		s.log.Warnw("handshake token rejected", "err", err)
	}
	return conn.Query("userId")
}

func (s *Server) readLoop(c *Client) {
	c.conn.SetReadLimit(s.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.opts.ReadDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.opts.ReadDeadline))
	})

	for {
		mt, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		s.dispatch(c, frame)
	}
}

// dispatch decodes one inbound envelope and hands it to the router.
// Malformed frames are dropped with a log; they never take the
// connection down.
func (s *Server) dispatch(c *Client, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		s.log.Warnw("malformed frame", "session", c.SessionID, "err", err)
		return
	}

	ctx := context.Background()
	switch env.Type {
	case router.EventSendMessage:
		var msg router.DirectMessage
		if !s.decode(c, env, &msg) {
			return
		}
		s.router.SendMessage(ctx, msg)
	case router.EventSendChannelMessage:
		var msg router.ChannelMessage
		if !s.decode(c, env, &msg) {
			return
		}
		s.router.SendChannelMessage(ctx, msg)
	case router.EventSendCallRequest:
		var req router.CallRequest
		if !s.decode(c, env, &req) {
			return
		}
		s.router.SendCallRequest(ctx, req)
	case router.EventSendChannelCallRequest:
		var req router.ChannelCallRequest
		if !s.decode(c, env, &req) {
			return
		}
		s.router.SendChannelCallRequest(ctx, req)
	case router.EventTyping:
		var notice router.TypingNotice
		if !s.decode(c, env, &notice) {
			return
		}
		s.router.Typing(ctx, notice)
	case router.EventStopTyping:
		var notice router.TypingNotice
		if !s.decode(c, env, &notice) {
			return
		}
		s.router.StopTyping(ctx, notice)
	default:
		s.log.Debugw("unknown event", "type", env.Type, "session", c.SessionID)
	}
}

func (s *Server) decode(c *Client, env Envelope, out any) bool {
	if len(env.Payload) == 0 {
		s.log.Warnw("event has no payload", "type", env.Type, "session", c.SessionID)
		return false
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		s.log.Warnw("malformed payload", "type", env.Type, "session", c.SessionID, "err", err)
		return false
	}
	return true
}
