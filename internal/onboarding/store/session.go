// Package store keeps onboarding sessions and their uploaded files between
// requests. Sessions expire after a TTL that every save extends.
package store

import (
	"time"

	"onboarding/internal/onboarding/models"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 2 * time.Hour

// Session is one applicant's wizard state. Version increases with every
// save and guards against lost updates from concurrent requests.
type Session struct {
	ID        string           `json:"id"`
	State     models.FormState `json:"state"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Expired reports whether the session is past its TTL at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) clone() *Session {
	c := *s
	c.State = s.State.Clone()
	return &c
}
