package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/motohanem/moto-backend/internal/cache"
	"github.com/motohanem/moto-backend/internal/events"
	"github.com/motohanem/moto-backend/internal/metrics"
	"github.com/motohanem/moto-backend/internal/models"
)

func premiumUser(end time.Time) models.User {
	sub := "premium_monthly"
	start := end.AddDate(0, -1, 0)
	return models.User{
		BaseModel:        models.BaseModel{ID: uuid.New()},
		IsPremium:        true,
		SubscriptionType: &sub,
		PremiumStartDate: &start,
		PremiumEndDate:   &end,
	}
}

func newTestSweeper(t *testing.T, store PremiumStore, opts ...SweeperOption) (*ExpirySweeper, *mockPublisher, *metrics.Metrics) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m := metrics.NewNop()
	return NewExpirySweeper(store, pub, m, logger, opts...), pub, m
}

func TestSweepExpiresOnlyPastEndDates(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	past := premiumUser(now.Add(-time.Second))
	exact := premiumUser(now)
	future := premiumUser(now.Add(time.Hour))
	store := newMemPremiumStore(past, exact, future)

	sweeper, pub, m := newTestSweeper(t, store, WithClock(func() time.Time { return now }))
	n, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.False(t, store.user(past.ID).IsPremium)
	assert.Nil(t, store.user(past.ID).PremiumStartDate)
	assert.True(t, store.user(exact.ID).IsPremium)
	assert.True(t, store.user(future.ID).IsPremium)

	pub.AssertCalled(t, "Publish", mock.Anything, events.PremiumSwept, events.PremiumSweepCompleted{Expired: 1, RanAt: now})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRuns.WithLabelValues("ok")))
}

func TestSweepWithNothingToExpireDoesNotPublish(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	store := newMemPremiumStore(premiumUser(now.Add(time.Hour)))

	sweeper, pub, _ := newTestSweeper(t, store)
	n, err := sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepSkipsOverlappingRun(t *testing.T) {
	store := newMemPremiumStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	store.sweepFn = func() {
		entered <- struct{}{}
		<-release
	}
	sweeper, _, m := newTestSweeper(t, store)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = sweeper.Sweep(context.Background(), time.Now())
	}()
	<-entered

	n, err := sweeper.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	close(release)
	wg.Wait()
	assert.Equal(t, 1, store.sweeps)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRuns.WithLabelValues("skipped")))
}

func TestSweepHonoursDistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })

	store := newMemPremiumStore()
	sweeper, _, _ := newTestSweeper(t, store, WithLocker(c), WithLockTTL(time.Minute))

	held, ok, err := c.TryLock(context.Background(), sweepLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = sweeper.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, store.sweeps)

	require.NoError(t, held(context.Background()))
	_, err = sweeper.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, store.sweeps)
	assert.False(t, mr.Exists(sweepLockKey), "lock is released after the run")
}

func TestSweepRunsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	mr.Close()

	store := newMemPremiumStore()
	sweeper, _, _ := newTestSweeper(t, store, WithLocker(c))
	_, err := sweeper.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, store.sweeps)
}

func TestNextRun(t *testing.T) {
	cases := []struct {
		now  time.Time
		hour int
		want time.Time
	}{
		{time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), 0, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 1, 2, 30, 0, 0, time.UTC), 3, time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC), 3, time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)},
		{time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, nextRun(tc.now, tc.hour), "now=%s hour=%d", tc.now, tc.hour)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	sweeper, _, _ := newTestSweeper(t, newMemPremiumStore())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStartWaitsOnInjectedClock(t *testing.T) {
	fixed := time.Date(2100, 1, 1, 23, 59, 59, 900_000_000, time.UTC)
	store := newMemPremiumStore()
	fired := make(chan struct{}, 1)
	store.sweepFn = func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}
	sweeper, _, _ := newTestSweeper(t, store,
		WithClock(func() time.Time { return fixed }),
		WithSweepHour(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run at the injected clock's next hour")
	}
	cancel()
	<-done
}
