package router

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-realtime/internal/models"
	"github.com/fathima-sithara/chat-realtime/internal/store"
)

// Sessions is the registry surface the router needs.
type Sessions interface {
	Resolve(identity string) (string, bool)
	Disconnect(sessionID string) (string, bool)
}

// Emitter delivers an event to one transport session. Delivery is best
// effort: unknown session ids and slow consumers drop silently.
type Emitter interface {
	Emit(sessionID, event string, payload any)
}

// Publisher pushes persisted-message events downstream (notifications,
// analytics). Optional; a nil Publisher disables it.
type Publisher interface {
	PublishMessageSent(ctx context.Context, payload any) error
}

// ChannelMessageEvent is the outbound receiveChannelMessage payload:
// the expanded message plus the channel it belongs to.
type ChannelMessageEvent struct {
	models.MessageView
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
}

// Router consumes inbound transport events, resolves recipients through
// the session registry, persists through the store gateway, and emits
// outbound events to the resolved sessions.
type Router struct {
	sessions Sessions
	gw       store.Gateway
	emitter  Emitter
	producer Publisher
	log      *zap.SugaredLogger
}

func New(sessions Sessions, gw store.Gateway, emitter Emitter, producer Publisher, log *zap.SugaredLogger) *Router {
	return &Router{
		sessions: sessions,
		gw:       gw,
		emitter:  emitter,
		producer: producer,
		log:      log,
	}
}

// SendMessage persists a direct message and echoes it to both ends.
// Sessions are resolved before the persistence round-trip; a recipient
// disconnecting during the round-trip means the emit goes to a stale
// session id and the transport drops it. Messages to offline users are
// persisted with no realtime delivery.
func (r *Router) SendMessage(ctx context.Context, msg DirectMessage) {
	eventsTotal.WithLabelValues(EventSendMessage).Inc()
	if msg.Sender == "" || msg.Recipient == "" {
		rejectedTotal.WithLabelValues(EventSendMessage).Inc()
		r.log.Warnw("dropping direct message with missing addressing",
			"sender", msg.Sender, "recipient", msg.Recipient)
		return
	}

	senderSession, senderLive := r.sessions.Resolve(msg.Sender)
	recipientSession, recipientLive := r.sessions.Resolve(msg.Recipient)

	id, err := r.gw.CreateMessage(ctx, &models.Message{
		Sender:      msg.Sender,
		Recipient:   msg.Recipient,
		Content:     msg.Content,
		MessageType: msg.MessageType,
		FileURL:     msg.FileURL,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		r.log.Errorw("persist direct message", "sender", msg.Sender, "err", err)
		return
	}

	view, err := r.gw.GetMessageExpanded(ctx, id)
	if err != nil {
		r.log.Errorw("expand direct message", "id", id, "err", err)
		return
	}

	if recipientLive {
		r.emit(recipientSession, EventReceiveMessage, view)
	}
	if senderLive {
		r.emit(senderSession, EventReceiveMessage, view)
	}
	r.publish(ctx, EventReceiveMessage, view)
}

// SendChannelMessage persists a channel message, appends it to the
// channel's message list, and fans it out to every member plus the
// admin. The admin is not deduplicated against the member list; an
// admin who is also a member receives the event twice, matching the
// shipped client's expectations.
func (r *Router) SendChannelMessage(ctx context.Context, msg ChannelMessage) {
	eventsTotal.WithLabelValues(EventSendChannelMessage).Inc()
	if msg.ChannelID == "" || msg.Sender == "" {
		rejectedTotal.WithLabelValues(EventSendChannelMessage).Inc()
		r.log.Warnw("dropping channel message with missing addressing",
			"channelId", msg.ChannelID, "sender", msg.Sender)
		return
	}

	id, err := r.gw.CreateMessage(ctx, &models.Message{
		Sender:      msg.Sender,
		Content:     msg.Content,
		MessageType: msg.MessageType,
		FileURL:     msg.FileURL,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		r.log.Errorw("persist channel message", "channelId", msg.ChannelID, "err", err)
		return
	}

	view, err := r.gw.GetMessageExpanded(ctx, id)
	if err != nil {
		r.log.Errorw("expand channel message", "id", id, "err", err)
		return
	}

	// Not atomic with the create above; a failure here leaves the
	// message orphaned from its channel.
	if err := r.gw.AppendMessageToChannel(ctx, msg.ChannelID, id); err != nil {
		r.log.Errorw("append message to channel", "channelId", msg.ChannelID, "id", id, "err", err)
		return
	}

	channel, err := r.gw.GetChannelWithMembers(ctx, msg.ChannelID)
	if err != nil {
		r.log.Errorw("load channel members", "channelId", msg.ChannelID, "err", err)
		return
	}

	event := ChannelMessageEvent{
		MessageView: *view,
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
	}
	for _, member := range channel.Members {
		r.emitToUser(member.ID, EventReceiveChannelMessage, event)
	}
	r.emitToUser(channel.Admin.ID, EventReceiveChannelMessage, event)
	r.publish(ctx, EventReceiveChannelMessage, event)
}

// SendCallRequest signals a direct call. Room is the callee's user id.
// Not persisted; an offline callee means the request vanishes and the
// caller is not told.
func (r *Router) SendCallRequest(ctx context.Context, req CallRequest) {
	eventsTotal.WithLabelValues(EventSendCallRequest).Inc()
	if req.Room == "" {
		rejectedTotal.WithLabelValues(EventSendCallRequest).Inc()
		r.log.Warnw("dropping call request with no target")
		return
	}
	r.emitToUser(req.Room, EventReceiveCallRequest, req)
}

// SendChannelCallRequest invites every channel member except the
// initiator, and the admin unless the admin initiated. Call invites
// must not echo back to the caller, unlike channel messages.
func (r *Router) SendChannelCallRequest(ctx context.Context, req ChannelCallRequest) {
	eventsTotal.WithLabelValues(EventSendChannelCallRequest).Inc()
	if req.ChannelID == "" {
		rejectedTotal.WithLabelValues(EventSendChannelCallRequest).Inc()
		r.log.Warnw("dropping channel call request with no channel")
		return
	}

	channel, err := r.gw.GetChannelWithMembers(ctx, req.ChannelID)
	if err != nil {
		r.log.Errorw("load channel for call request", "channelId", req.ChannelID, "err", err)
		return
	}

	invite := ChannelCallInvite{ChannelID: req.ChannelID, UserIdentity: req.UserIdentity}
	for _, member := range channel.Members {
		if member.ID == req.UserID {
			continue
		}
		r.emitToUser(member.ID, EventReceiveChannelCallRequest, invite)
	}
	if channel.Admin.ID != req.UserID {
		r.emitToUser(channel.Admin.ID, EventReceiveChannelCallRequest, invite)
	}
}

// Typing forwards a typing indicator to the recipient only; the sender
// already knows it is typing.
func (r *Router) Typing(ctx context.Context, notice TypingNotice) {
	eventsTotal.WithLabelValues(EventTyping).Inc()
	if notice.RecipientID == "" {
		rejectedTotal.WithLabelValues(EventTyping).Inc()
		return
	}
	r.emitToUser(notice.RecipientID, EventTyping, notice)
}

// StopTyping forwards the end of a typing indicator to the recipient.
func (r *Router) StopTyping(ctx context.Context, notice TypingNotice) {
	eventsTotal.WithLabelValues(EventStopTyping).Inc()
	if notice.RecipientID == "" {
		rejectedTotal.WithLabelValues(EventStopTyping).Inc()
		return
	}
	r.emitToUser(notice.RecipientID, EventStopTyping, notice)
}

// Disconnect unbinds the session from the registry. No message side
// effects.
func (r *Router) Disconnect(sessionID string) {
	if identity, ok := r.sessions.Disconnect(sessionID); ok {
		r.log.Infow("session unbound", "identity", identity, "session", sessionID)
	}
}

func (r *Router) emitToUser(identity, event string, payload any) {
	sid, ok := r.sessions.Resolve(identity)
	if !ok {
		unroutableTotal.Inc()
		r.log.Debugw("no live session", "identity", identity, "event", event)
		return
	}
	r.emit(sid, event, payload)
}

func (r *Router) emit(sessionID, event string, payload any) {
	r.emitter.Emit(sessionID, event, payload)
	emitsTotal.WithLabelValues(event).Inc()
}

func (r *Router) publish(ctx context.Context, event string, payload any) {
	if r.producer == nil {
		return
	}
	if err := r.producer.PublishMessageSent(ctx, map[string]any{
		"type":    event,
		"payload": payload,
	}); err != nil {
		r.log.Warnw("publish message event", "event", event, "err", err)
	}
}
