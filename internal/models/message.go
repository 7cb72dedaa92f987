package models

import "time"

// Message is a message as handed to the store for creation. Sender and
// Recipient are user ids; Recipient is empty for channel messages.
type Message struct {
	Sender      string    `json:"sender"`
	Recipient   string    `json:"recipient,omitempty"`
	Content     string    `json:"content"`
	MessageType string    `json:"messageType"`
	FileURL     string    `json:"fileUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// MessageView is a stored message with its sender (and recipient, when
// direct) expanded to public profiles. This is what goes out on the wire.
type MessageView struct {
	ID          string    `json:"id"`
	Sender      *Profile  `json:"sender"`
	Recipient   *Profile  `json:"recipient,omitempty"`
	Content     string    `json:"content"`
	MessageType string    `json:"messageType"`
	FileURL     string    `json:"fileUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
