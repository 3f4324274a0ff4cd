package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gamemaster-server/internal/model"
)

// memorySessionRepository keeps sessions in process memory. This is the
// default store: sessions live for the process lifetime, matching the
// original lifecycle when no external store is configured.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
}

// NewMemorySessionRepository creates an in-memory SessionRepository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[uuid.UUID]*model.Session),
	}
}

func (r *memorySessionRepository) Get(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *memorySessionRepository) Save(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}
