package cache

import (
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"github.com/redis/go-redis/v9"
)

// redis key patterns
const (
	// session:{sessionID} - stores the session as JSON
	keySession = "session:%s"

	// pattern matching every cached session
	keySessionPattern = "session:*"
)

const DefaultTTL = 30 * time.Minute

// handles Redis-backed caching of session documents
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// wraps a sessions.Store with a Redis read-through cache
// reads check Redis first, writes go to the store and then refresh Redis
type CachedRepository struct {
	db    sessions.Store
	cache *SessionCache
}
