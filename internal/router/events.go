package router

// Inbound event names, as sent by clients.
const (
	EventSendMessage            = "sendMessage"
	EventSendChannelMessage     = "send-channel-message"
	EventSendCallRequest        = "sendCallRequest"
	EventSendChannelCallRequest = "sendChannelCallRequest"
	EventTyping                 = "typing"
	EventStopTyping             = "stop typing"
)

// Outbound event names.
const (
	EventReceiveMessage            = "receiveMessage"
	EventReceiveChannelMessage     = "receiveChannelMessage"
	EventReceiveCallRequest        = "receiveCallRequest"
	EventReceiveChannelCallRequest = "receiveChannelCallRequest"
	EventReminder                  = "reminder"
)

// DirectMessage is the sendMessage payload.
type DirectMessage struct {
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	FileURL     string `json:"fileUrl"`
}

// ChannelMessage is the send-channel-message payload.
type ChannelMessage struct {
	ChannelID   string `json:"channelId"`
	Sender      string `json:"sender"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	FileURL     string `json:"fileUrl"`
}

// CallRequest is the sendCallRequest payload. Room carries the callee's
// user id for direct calls.
type CallRequest struct {
	Room         string `json:"room"`
	UserIdentity string `json:"userIdentity"`
}

// ChannelCallRequest is the sendChannelCallRequest payload. UserID is
// the initiator and is excluded from the fan-out.
type ChannelCallRequest struct {
	ChannelID    string `json:"channelId"`
	UserIdentity string `json:"userIdentity"`
	UserID       string `json:"userId"`
}

// ChannelCallInvite is the outbound receiveChannelCallRequest payload.
type ChannelCallInvite struct {
	ChannelID    string `json:"channelId"`
	UserIdentity string `json:"userIdentity"`
}

// TypingNotice is the payload for typing and stop typing, both ways.
type TypingNotice struct {
	RecipientID string `json:"recipientId"`
	SenderID    string `json:"senderId"`
}
