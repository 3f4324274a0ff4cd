package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gamemaster-server/internal/model"
)

// Compile-time check to ensure redisSessionRepository implements SessionRepository
var _ SessionRepository = (*redisSessionRepository)(nil)

// redisSessionRepository persists sessions in Redis as JSON blobs with a TTL.
// Used when the process is not the session's source of truth, e.g. behind a
// load balancer or across restarts.
type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionRepository creates a Redis-backed SessionRepository. A zero
// ttl stores sessions without expiry.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("gm_session:%s", id)
}

func (r *redisSessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get session from redis", zap.Error(err), zap.Stringer("sessionID", id))
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Error("Failed to unmarshal stored session", zap.Error(err), zap.Stringer("sessionID", id))
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	if session.Slots == nil {
		session.Slots = make(map[string]string)
	}
	return &session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session to redis", zap.Error(err), zap.Stringer("sessionID", session.ID))
		return fmt.Errorf("failed to save session to redis: %w", err)
	}

	r.logger.Debug("Session saved",
		zap.Stringer("sessionID", session.ID),
		zap.Int("events", len(session.Events)),
		zap.Duration("ttl", r.ttl),
	)
	return nil
}
