package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"onboarding/pkg/platform/sentinel"
)

const sessionKeyPrefix = "onboarding:session:"

// RedisSessionStore keeps sessions as JSON values whose Redis TTL is the
// session TTL. Save uses WATCH so concurrent writers cannot overwrite each
// other silently.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore creates a store; ttl <= 0 selects DefaultTTL.
func NewRedisSessionStore(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Create(ctx context.Context, sess *Session) error {
	now := s.now()
	sess.Version = 1
	sess.CreatedAt = now
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	created, err := s.client.SetNX(ctx, sessionKey(sess.ID), raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !created {
		return fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrConflict)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	return s.get(ctx, s.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisSessionStore) get(ctx context.Context, c getter, id string) (*Session, error) {
	raw, err := c.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &sess, nil
}

// Save writes sess if the stored version still equals sess.Version. A
// concurrent write between the check and the write aborts the transaction
// and is reported as a conflict as well.
func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	key := sessionKey(sess.ID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, sess.ID)
		if err != nil {
			return err
		}
		if current.Version != sess.Version {
			return fmt.Errorf("session %s at version %d, have %d: %w", sess.ID, current.Version, sess.Version, sentinel.ErrConflict)
		}

		next := *sess
		now := s.now()
		next.Version++
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now
		next.ExpiresAt = now.Add(s.ttl)
		raw, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		*sess = next
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrConflict)
	}
	return err
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}
