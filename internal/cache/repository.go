package cache

import (
	"context"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/logger"
)

// creates a new cached repository wrapper
func NewCachedRepository(db sessions.Store, cache *SessionCache) *CachedRepository {
	return &CachedRepository{
		db:    db,
		cache: cache,
	}
}

// === CACHED OPERATIONS ===

// reads from Redis, falling back to the store on a miss or Redis failure
func (r *CachedRepository) GetSession(ctx context.Context, sessionID string) (*sessions.Session, error) {
	cached, err := r.cache.Get(ctx, sessionID)
	if err != nil {
		logger.Warn("session cache read failed", "session_id", sessionID, "error", err)
	}

	if cached != nil {
		return cached, nil
	}

	session, err := r.db.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	r.refresh(ctx, session)

	return session, nil
}

func (r *CachedRepository) CreateSession(ctx context.Context, session *sessions.Session) error {
	if err := r.db.CreateSession(ctx, session); err != nil {
		return err
	}

	r.refresh(ctx, session)

	return nil
}

// writes through to the store, then refreshes the cached copy
func (r *CachedRepository) UpdateSession(ctx context.Context, session *sessions.Session) error {
	if err := r.db.UpdateSession(ctx, session); err != nil {
		return err
	}

	r.refresh(ctx, session)

	return nil
}

// === PASS-THROUGH OPERATIONS (no caching needed) ===

func (r *CachedRepository) ListSessions(ctx context.Context, limit, offset int) ([]*sessions.Session, int, error) {
	return r.db.ListSessions(ctx, limit, offset)
}

func (r *CachedRepository) Migrate(ctx context.Context) error {
	return r.db.Migrate(ctx)
}

func (r *CachedRepository) Drop(ctx context.Context) error {
	if err := r.db.Drop(ctx); err != nil {
		return err
	}

	if err := r.cache.Clear(ctx); err != nil {
		logger.Warn("failed to clear session cache", "error", err)
	}

	return nil
}

// caches the latest copy, evicting the key when the write fails
func (r *CachedRepository) refresh(ctx context.Context, session *sessions.Session) {
	err := r.cache.Set(ctx, session)
	if err == nil {
		return
	}

	logger.Warn("failed to cache session", "session_id", session.ID, "error", err)

	if err := r.cache.Delete(ctx, session.ID); err != nil {
		logger.Debug("failed to evict cached session", "session_id", session.ID, "error", err)
	}
}
