//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/onboardingtest"
	"onboarding/internal/onboarding/store"
	"onboarding/pkg/platform/sentinel"
	"onboarding/pkg/testutil/containers"
)

type RedisSessionStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisSessionStore
}

func TestRedisSessionStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSessionStoreSuite))
}

func (s *RedisSessionStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedisSessionStore(s.redis.Client, time.Hour)
}

func (s *RedisSessionStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSessionStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	sess := &store.Session{ID: "sess-1", State: onboardingtest.SwissLLC()}
	s.Require().NoError(s.store.Create(ctx, sess))

	got, err := s.store.Get(ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(int64(1), got.Version)
	s.Equal(sess.State, got.State)

	ttl, err := s.redis.Client.TTL(ctx, "onboarding:session:sess-1").Result()
	s.Require().NoError(err)
	s.InDelta(time.Hour.Seconds(), ttl.Seconds(), 5)
}

func (s *RedisSessionStoreSuite) TestCreateConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &store.Session{ID: "sess-1", State: models.New("p1")}))
	err := s.store.Create(ctx, &store.Session{ID: "sess-1", State: models.New("p1")})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *RedisSessionStoreSuite) TestStaleSaveConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &store.Session{ID: "sess-1", State: models.New("p1")}))

	first, _ := s.store.Get(ctx, "sess-1")
	second, _ := s.store.Get(ctx, "sess-1")

	first.State.CompanyInfo.Name = "First AG"
	s.Require().NoError(s.store.Save(ctx, first))
	s.Equal(int64(2), first.Version)

	s.ErrorIs(s.store.Save(ctx, second), sentinel.ErrConflict)
}

// TestConcurrentSaves verifies that of many writers holding the same version
// exactly one wins.
func (s *RedisSessionStoreSuite) TestConcurrentSaves() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &store.Session{ID: "sess-1", State: models.New("p1")}))

	const writers = 20
	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := &store.Session{ID: "sess-1", State: models.New("p1"), Version: 1}
			switch err := s.store.Save(ctx, sess); {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(writers-1), conflicts.Load())
}

func (s *RedisSessionStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &store.Session{ID: "sess-1", State: models.New("p1")}))
	s.Require().NoError(s.store.Delete(ctx, "sess-1"))

	_, err := s.store.Get(ctx, "sess-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, "sess-1"), sentinel.ErrNotFound)
}
