package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gamemaster-server/internal/model"
)

// ErrSessionNotFound is returned when a session id has no stored state.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores conversation sessions. Implementations must be
// safe for concurrent use; per-session write ordering is the engine's job.
type SessionRepository interface {
	// Get returns the session for the id, or ErrSessionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// Save persists the full session state.
	Save(ctx context.Context, session *model.Session) error
}
