package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds computed analytics responses for a short time. A zero TTL
// disables it.
type Cache struct {
	c       *cache.Cache
	enabled bool
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{}
	}
	return &Cache{c: cache.New(ttl, 2*ttl), enabled: true}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.c.Get(key)
}

func (c *Cache) Set(key string, value interface{}) {
	if c.enabled {
		c.c.SetDefault(key, value)
	}
}

// Flush drops every cached response, for example after a review changed a
// record's flag.
func (c *Cache) Flush() {
	if c.enabled {
		c.c.Flush()
	}
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
