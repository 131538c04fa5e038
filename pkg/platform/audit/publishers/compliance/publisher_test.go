package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "onboarding/pkg/platform/audit"
	"onboarding/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("broker unreachable")
}

func TestPublisher_PersistsSynchronously(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store)

	err := pub.Emit(context.Background(), audit.ComplianceEvent{
		SessionID: "sess-1",
		Action:    string(audit.EventSubmissionStarted),
		Decision:  "submitting",
	})
	require.NoError(t, err)

	events, err := store.ListBySession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, string(audit.EventSubmissionStarted), events[0].Action)
	assert.Equal(t, "submitting", events[0].Decision)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	fixed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	pub := New(store, WithClock(func() time.Time { return fixed }))

	require.NoError(t, pub.Emit(context.Background(), audit.ComplianceEvent{
		SessionID: "sess-1",
		Action:    string(audit.EventSessionDeleted),
	}))

	events, _ := store.ListBySession(context.Background(), "sess-1")
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Timestamp)
}

func TestPublisher_RequiredFields(t *testing.T) {
	pub := New(memory.NewInMemoryStore())

	err := pub.Emit(context.Background(), audit.ComplianceEvent{Action: "x"})
	assert.ErrorContains(t, err, "SessionID")

	err = pub.Emit(context.Background(), audit.ComplianceEvent{SessionID: "s"})
	assert.ErrorContains(t, err, "Action")
}

func TestPublisher_FailsClosed(t *testing.T) {
	pub := New(failingStore{})

	err := pub.Emit(context.Background(), audit.ComplianceEvent{
		SessionID: "sess-1",
		Action:    string(audit.EventSubmissionStarted),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compliance audit persistence failed")
	assert.Contains(t, err.Error(), "broker unreachable")
}
