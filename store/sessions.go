package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rabbikazmi/HackingDelhi/models"
)

const sessionCleanupInterval = 10 * time.Minute

// MemorySessions keeps sessions in an expiring in-process cache. Each entry
// lives exactly as long as the session it holds.
type MemorySessions struct {
	c   *cache.Cache
	now func() time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		c:   cache.New(cache.NoExpiration, sessionCleanupInterval),
		now: time.Now,
	}
}

func (m *MemorySessions) CreateSession(_ context.Context, s models.Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	m.c.Set(s.Token, s, ttl)
	return nil
}

func (m *MemorySessions) GetSession(_ context.Context, token string) (models.Session, error) {
	v, ok := m.c.Get(token)
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return v.(models.Session), nil
}

func (m *MemorySessions) DeleteSession(_ context.Context, token string) error {
	m.c.Delete(token)
	return nil
}
