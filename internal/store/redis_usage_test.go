package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageFromHash(t *testing.T) {
	rec, err := usageFromHash("u@x.com", map[string]string{"practice": "90", "real_debate": "15"})
	require.NoError(t, err)
	assert.Equal(t, domain.UsageRecord{Owner: "u@x.com", PracticeSeconds: 90, RealDebateSeconds: 15}, rec)

	rec, err = usageFromHash("u@x.com", map[string]string{"practice": "30"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.RealDebateSeconds)

	_, err = usageFromHash("u@x.com", map[string]string{"practice": "abc"})
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

func TestUsageFieldRejectsUnknownCategory(t *testing.T) {
	_, err := usageField(domain.UsageCategory("nap"))
	assert.ErrorIs(t, err, domain.ErrInput)
}

// newTestRedisUsage connects to a live server when REDIS_ADDR is set and
// returns a store plus an owner whose counters start empty.
func newTestRedisUsage(t *testing.T) (*RedisUsageStore, string) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisUsage(ctx, RedisOptions{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	owner := "redis-test-" + t.Name()
	require.NoError(t, s.rdb.Del(ctx, usageKey(owner)).Err())
	t.Cleanup(func() { _ = s.rdb.Del(context.Background(), usageKey(owner)).Err() })
	return s, owner
}

func TestRedisUsageIncrement(t *testing.T) {
	ctx := context.Background()
	s, owner := newTestRedisUsage(t)

	_, err := s.IncrementUsage(ctx, owner, domain.UsagePractice, 60)
	require.NoError(t, err)
	rec, err := s.IncrementUsage(ctx, owner, domain.UsagePractice, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(90), rec.PracticeSeconds)
	assert.Equal(t, int64(0), rec.RealDebateSeconds)

	got, err := s.GetUsage(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(90), got.PracticeSeconds)
}

func TestRedisUsageConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s, owner := newTestRedisUsage(t)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			category, seconds := domain.UsagePractice, int64(30)
			if i%2 == 1 {
				category, seconds = domain.UsageRealDebate, 60
			}
			_, err := s.IncrementUsage(ctx, owner, category, seconds)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetUsage(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(workers/2*30), got.PracticeSeconds)
	assert.Equal(t, int64(workers/2*60), got.RealDebateSeconds)
}
