package sessions

import (
	"context"
	"sort"
	"sync"
)

// keeps sessions in process memory, used for tests and DATABASE_URL=memory
type MemoryRepository struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryRepository) Migrate(_ context.Context) error {
	return nil
}

// forgets every stored session
func (m *MemoryRepository) Drop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[string]*Session)
	return nil
}

func (m *MemoryRepository) CreateSession(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryRepository) GetSession(_ context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session.Clone(), nil
}

func (m *MemoryRepository) ListSessions(_ context.Context, limit, offset int) ([]*Session, int, error) {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))

	for _, s := range m.sessions {
		all = append(all, s.Clone())
	}

	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}

		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)

	if offset >= total {
		return []*Session{}, total, nil
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return all[offset:end], total, nil
}

func (m *MemoryRepository) UpdateSession(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; !exists {
		return ErrSessionNotFound
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

// returns the number of stored sessions
func (m *MemoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
