package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/redis"
)

// RedisStore keeps sessions in Redis under the storefront namespace.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps the shared Redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, token string, sess Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.client.Set(ctx, s.client.SessionKey(token), payload, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, token string) (Session, error) {
	raw, err := s.client.Get(ctx, s.client.SessionKey(token))
	if err != nil {
		if redis.IsNil(err) {
			return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session not found")
		}
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return sess, nil
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.client.SessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	return nil
}
