package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connTTL = 24 * time.Hour

// Store mirrors connection lifecycle into Redis so other services can
// read who is online. Keys:
//
//	<prefix>:conn:<identity>     set of live session ids
//	<prefix>:presence:<identity> {"status": ..., "last_seen": ...}
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) connKey(identity string) string {
	return fmt.Sprintf("%s:conn:%s", s.prefix, identity)
}

func (s *Store) presenceKey(identity string) string {
	return fmt.Sprintf("%s:presence:%s", s.prefix, identity)
}

func (s *Store) ConnectionOpened(ctx context.Context, identity, sessionID string) error {
	key := s.connKey(identity)
	if err := s.client.SAdd(ctx, key, sessionID).Err(); err != nil {
		return err
	}
	_ = s.client.Expire(ctx, key, connTTL).Err()
	return s.setStatus(ctx, identity, "online")
}

func (s *Store) ConnectionClosed(ctx context.Context, identity, sessionID string) error {
	key := s.connKey(identity)
	if err := s.client.SRem(ctx, key, sessionID).Err(); err != nil {
		return err
	}
	remaining, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.setStatus(ctx, identity, "offline")
	}
	return nil
}

func (s *Store) setStatus(ctx context.Context, identity, status string) error {
	b, _ := json.Marshal(map[string]any{
		"status":    status,
		"last_seen": time.Now().Unix(),
	})
	return s.client.Set(ctx, s.presenceKey(identity), b, connTTL).Err()
}
