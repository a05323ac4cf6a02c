package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/personalmgr/backend/domain"
	"github.com/personalmgr/backend/repository"
)

const keyPrefix = "sessions:v1:"

type sessionRepository struct {
	client     *redislib.Client
	defaultTTL time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. Sessions
// are stored as JSON under a keyspace prefix with a TTL matching the session
// expiry, so Redis evicts revocable state on its own.
func NewSessionRepository(client *redislib.Client, defaultTTL time.Duration) repository.SessionRepository {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &sessionRepository{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redislib.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session := new(domain.Session)
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.defaultTTL)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+session.ID, payload, r.remaining(session)).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, keyPrefix+id).Err()
}

func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	extended, err := r.client.Expire(ctx, keyPrefix+id, ttl).Result()
	if err != nil {
		return err
	}
	if !extended {
		return domain.ErrSessionNotFound
	}
	return nil
}

// remaining derives the key TTL from the session expiry, falling back to the
// default when the session is already past due.
func (r *sessionRepository) remaining(session *domain.Session) time.Duration {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return r.defaultTTL
	}
	return ttl
}
