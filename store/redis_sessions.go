package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rabbikazmi/HackingDelhi/models"
)

const sessionKeyPrefix = "portal:session:"

// RedisSessions shares sessions between portal replicas. Keys expire with the
// session.
type RedisSessions struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb, now: time.Now}
}

func sessionKey(token string) string { return sessionKeyPrefix + token }

func (r *RedisSessions) CreateSession(ctx context.Context, s models.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(s.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisSessions) GetSession(ctx context.Context, token string) (models.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *RedisSessions) DeleteSession(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, sessionKey(token)).Err()
}
