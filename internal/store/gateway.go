package store

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/chat-realtime/internal/models"
)

var ErrNotFound = errors.New("store: not found")

// Gateway is the persistence contract the routing layer depends on.
// Storage of users, messages and channels lives behind it; the realtime
// core only creates messages, reads them back expanded, and reads
// channel membership.
type Gateway interface {
	CreateMessage(ctx context.Context, m *models.Message) (string, error)
	GetMessageExpanded(ctx context.Context, id string) (*models.MessageView, error)
	AppendMessageToChannel(ctx context.Context, channelID, messageID string) error
	GetChannelWithMembers(ctx context.Context, channelID string) (*models.ChannelView, error)
	UpcomingEvents(ctx context.Context, from, until time.Time) ([]models.Event, error)
}
