// internal/services/expiry_sweeper.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/events"
	"github.com/motohanem/moto-backend/internal/metrics"
)

const sweepLockKey = "locks:premium-expiry-sweep"

// Locker is a cluster-wide lock. *cache.Cache satisfies it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error)
}

// ExpirySweeper resets premium users whose end date has passed. It runs once a
// day at a fixed UTC hour.
type ExpirySweeper struct {
	store     PremiumStore
	locker    Locker
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	clock     func() time.Time
	hour      int
	lockTTL   time.Duration

	running sync.Mutex
}

type SweeperOption func(*ExpirySweeper)

func WithLocker(l Locker) SweeperOption {
	return func(s *ExpirySweeper) { s.locker = l }
}

func WithClock(clock func() time.Time) SweeperOption {
	return func(s *ExpirySweeper) { s.clock = clock }
}

func WithSweepHour(hour int) SweeperOption {
	return func(s *ExpirySweeper) { s.hour = hour }
}

func WithLockTTL(ttl time.Duration) SweeperOption {
	return func(s *ExpirySweeper) { s.lockTTL = ttl }
}

func NewExpirySweeper(store PremiumStore, publisher events.Publisher, m *metrics.Metrics, log logrus.FieldLogger, opts ...SweeperOption) *ExpirySweeper {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if m == nil {
		m = metrics.NewNop()
	}
	s := &ExpirySweeper{
		store:     store,
		publisher: publisher,
		metrics:   m,
		log:       log.WithField("component", "expiry_sweeper"),
		clock:     func() time.Time { return time.Now().UTC() },
		lockTTL:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce sweeps at the current clock time.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.Sweep(ctx, s.clock())
}

// Sweep expires every premium user whose end date is strictly before now. A
// run that overlaps another one, here or on another instance, is skipped.
func (s *ExpirySweeper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	if !s.running.TryLock() {
		s.metrics.SweepRuns.WithLabelValues("skipped").Inc()
		s.log.Info("Expiry sweep already running, skipping")
		return 0, nil
	}
	defer s.running.Unlock()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, sweepLockKey, s.lockTTL)
		if err != nil {
			// Redis being down must not stop expiry.
			s.log.WithError(err).Warn("Sweep lock unavailable, sweeping without it")
		} else if !ok {
			s.metrics.SweepRuns.WithLabelValues("skipped").Inc()
			s.log.Info("Expiry sweep held by another instance, skipping")
			return 0, nil
		} else {
			defer func() {
				if err := release(context.Background()); err != nil {
					s.log.WithError(err).Warn("Failed to release sweep lock")
				}
			}()
		}
	}

	started := time.Now()
	expired, err := s.store.ExpirePremiumBefore(ctx, now)
	s.metrics.SweepDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		s.metrics.SweepRuns.WithLabelValues("error").Inc()
		s.log.WithError(err).Error("Expiry sweep failed")
		return 0, err
	}

	s.metrics.SweepRuns.WithLabelValues("ok").Inc()
	s.metrics.SweepExpired.Add(float64(expired))
	s.log.WithFields(logrus.Fields{"expired": expired, "now": now}).Info("Expiry sweep finished")

	if expired > 0 {
		msg := events.PremiumSweepCompleted{Expired: expired, RanAt: now}
		if err := s.publisher.Publish(ctx, events.PremiumSwept, msg); err != nil {
			s.log.WithError(err).Warn("Failed to publish sweep event")
		}
	}
	return expired, nil
}

// Start runs the sweep every day at the configured hour until ctx is done.
// Failures are logged and the next run is still scheduled.
func (s *ExpirySweeper) Start(ctx context.Context) {
	for {
		next := nextRun(s.clock(), s.hour)
		s.log.WithField("next_run", next).Debug("Expiry sweep scheduled")

		timer := time.NewTimer(next.Sub(s.clock()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Expiry sweeper stopped")
			return
		case <-timer.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// nextRun is the first instant strictly after now at hour:00 UTC.
func nextRun(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
