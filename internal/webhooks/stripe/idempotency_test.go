package stripewebhook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = "1"
	return true, nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return "sf:idempotency:" + scope + ":" + id
}

func TestGuardMarksFirstDelivery(t *testing.T) {
	t.Parallel()

	guard, err := NewIdempotencyGuard(newMemoryStore(), time.Minute, "stripe_events")
	require.NoError(t, err)

	dup, err := guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestGuardDeleteReleasesMark(t *testing.T) {
	t.Parallel()

	guard, err := NewIdempotencyGuard(newMemoryStore(), time.Minute, "stripe_events")
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "evt_2")
	require.NoError(t, err)
	require.NoError(t, guard.Delete(context.Background(), "evt_2"))

	dup, err := guard.CheckAndMark(context.Background(), "evt_2")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestGuardValidation(t *testing.T) {
	t.Parallel()

	_, err := NewIdempotencyGuard(nil, time.Minute, "stripe_events")
	assert.Error(t, err)

	_, err = NewIdempotencyGuard(newMemoryStore(), time.Minute, "")
	assert.Error(t, err)

	guard, err := NewIdempotencyGuard(newMemoryStore(), time.Minute, "stripe_events")
	require.NoError(t, err)
	_, err = guard.CheckAndMark(context.Background(), "")
	assert.Error(t, err)
}
