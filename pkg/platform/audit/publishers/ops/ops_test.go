package ops

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "onboarding/pkg/platform/audit"
	"onboarding/pkg/platform/audit/store/memory"
)

type countingStore struct {
	calls atomic.Int32
	err   error
}

func (s *countingStore) Append(context.Context, audit.Event) error {
	s.calls.Add(1)
	return s.err
}

func TestTracker_DrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	tracker := New(store, WithBufferSize(100))

	for range 10 {
		tracker.Track(audit.OpsEvent{SessionID: "sess-1", Action: string(audit.EventActionsApplied)})
	}
	require.NoError(t, tracker.Close(context.Background()))

	events, err := store.ListBySession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestTracker_TrackAfterCloseIsDropped(t *testing.T) {
	store := memory.NewInMemoryStore()
	tracker := New(store)
	require.NoError(t, tracker.Close(context.Background()))
	require.NoError(t, tracker.Close(context.Background()))

	tracker.Track(audit.OpsEvent{SessionID: "sess-1", Action: "late"})

	events, _ := store.ListBySession(context.Background(), "sess-1")
	assert.Empty(t, events)
}

func TestTracker_SampledOut(t *testing.T) {
	store := memory.NewInMemoryStore()
	sampler := NewSampler(1)
	sampler.SetRate(string(audit.EventActionsApplied), 0)
	tracker := New(store, WithSampler(sampler))

	tracker.Track(audit.OpsEvent{SessionID: "sess-1", Action: string(audit.EventActionsApplied)})
	tracker.Track(audit.OpsEvent{SessionID: "sess-1", Action: string(audit.EventSessionStarted)})
	require.NoError(t, tracker.Close(context.Background()))

	events, _ := store.ListBySession(context.Background(), "sess-1")
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventSessionStarted), events[0].Action)
}

func TestTracker_CircuitOpensOnFailingStore(t *testing.T) {
	store := &countingStore{err: errors.New("down")}
	tracker := New(store, WithCircuitBreaker(NewCircuitBreaker(3, time.Hour)))

	for range 10 {
		tracker.Track(audit.OpsEvent{SessionID: "sess-1", Action: "a"})
	}
	require.NoError(t, tracker.Close(context.Background()))

	assert.Equal(t, int32(3), store.calls.Load(), "store is not called while the circuit is open")
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	var changes []bool
	cb.onChange = func(open bool) { changes = append(changes, open) }
	fail := func() error { return errors.New("x") }
	ok := func() error { return nil }

	assert.Error(t, cb.Do(fail))
	assert.False(t, cb.IsOpen())
	assert.Error(t, cb.Do(fail))
	assert.True(t, cb.IsOpen())
	assert.ErrorIs(t, cb.Do(ok), ErrCircuitOpen)

	now = now.Add(time.Minute)
	assert.False(t, cb.IsOpen(), "cooldown elapsed")
	assert.NoError(t, cb.Do(ok))
	assert.Equal(t, []bool{true, false}, changes)
}

func TestSampler(t *testing.T) {
	s := NewSampler(0.5)
	s.roll = func() float64 { return 0.4 }
	assert.True(t, s.Keep("a"))
	s.roll = func() float64 { return 0.6 }
	assert.False(t, s.Keep("a"))

	s.SetRate("a", 7)
	assert.True(t, s.Keep("a"), "rates are clamped to 1")
	s.SetRate("a", -1)
	assert.False(t, s.Keep("a"), "rates are clamped to 0")
}
