package models

import "time"

// Event is a scheduled reminder entry. Both the owner and the recipient
// get a reminder notice when the event comes due.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	RecipientID string    `json:"recipientId"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"dateTime"`
}

// ReminderNotice is the payload emitted on the reminder event.
type ReminderNotice struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}
