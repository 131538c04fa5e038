package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onboarding/internal/onboarding/models"
	"onboarding/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	store *InMemorySessionStore
	now   time.Time
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.store = NewInMemorySessionStore(time.Hour)
	s.store.now = func() time.Time { return s.now }
}

func (s *SessionStoreSuite) create(id string) *Session {
	sess := &Session{ID: id, State: models.New("p1")}
	s.Require().NoError(s.store.Create(context.Background(), sess))
	return sess
}

func (s *SessionStoreSuite) TestLifecycle() {
	ctx := context.Background()

	s.Run("create stamps version and expiry", func() {
		sess := s.create("a")
		s.Equal(int64(1), sess.Version)
		s.Equal(s.now.Add(time.Hour), sess.ExpiresAt)
	})

	s.Run("duplicate create conflicts", func() {
		err := s.store.Create(ctx, &Session{ID: "a"})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("get returns a copy", func() {
		got, err := s.store.Get(ctx, "a")
		s.Require().NoError(err)
		got.State.CompanyInfo.Name = "changed"

		again, err := s.store.Get(ctx, "a")
		s.Require().NoError(err)
		s.Empty(again.State.CompanyInfo.Name)
	})

	s.Run("delete removes", func() {
		s.Require().NoError(s.store.Delete(ctx, "a"))
		_, err := s.store.Get(ctx, "a")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.store.Delete(ctx, "a"), sentinel.ErrNotFound)
	})
}

func (s *SessionStoreSuite) TestOptimisticSave() {
	ctx := context.Background()
	s.create("a")

	first, _ := s.store.Get(ctx, "a")
	second, _ := s.store.Get(ctx, "a")

	first.State.CompanyInfo.Name = "First AG"
	s.Require().NoError(s.store.Save(ctx, first))
	s.Equal(int64(2), first.Version)

	second.State.CompanyInfo.Name = "Second AG"
	err := s.store.Save(ctx, second)
	s.ErrorIs(err, sentinel.ErrConflict)

	got, _ := s.store.Get(ctx, "a")
	s.Equal("First AG", got.State.CompanyInfo.Name)
}

func (s *SessionStoreSuite) TestTTL() {
	ctx := context.Background()
	s.create("a")

	s.now = s.now.Add(50 * time.Minute)
	sess, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, sess), "saving extends the TTL")

	s.now = s.now.Add(50 * time.Minute)
	_, err = s.store.Get(ctx, "a")
	s.Require().NoError(err)

	s.now = s.now.Add(11 * time.Minute)
	_, err = s.store.Get(ctx, "a")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(ctx, &Session{ID: "a"}), "expired ids can be reused")
}
