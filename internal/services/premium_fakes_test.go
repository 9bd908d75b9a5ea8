package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
)

// memPremiumStore keeps users in memory with the same semantics as the gorm store.
type memPremiumStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	billing []models.BillingEvent
	sweeps  int
	sweepFn func()
}

func newMemPremiumStore(users ...models.User) *memPremiumStore {
	s := &memPremiumStore{users: map[uuid.UUID]models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memPremiumStore) MutateUser(_ context.Context, id uuid.UUID, fn func(u *models.User) (bool, error)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(i18n.KeyUserNotFound)
	}
	changed, err := fn(&u)
	if err != nil {
		return nil, err
	}
	if changed {
		s.users[id] = u
	}
	return &u, nil
}

func (s *memPremiumStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(i18n.KeyUserNotFound)
	}
	return &u, nil
}

func (s *memPremiumStore) ExpirePremiumBefore(_ context.Context, now time.Time) (int64, error) {
	if s.sweepFn != nil {
		s.sweepFn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	var n int64
	for id, u := range s.users {
		if u.IsPremium && u.PremiumEndDate != nil && u.PremiumEndDate.Before(now) {
			u.IsPremium = false
			u.SubscriptionType = nil
			u.PremiumStartDate = nil
			u.PremiumEndDate = nil
			s.users[id] = u
			n++
		}
	}
	return n, nil
}

func (s *memPremiumStore) RecordBillingEvent(_ context.Context, event *models.BillingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billing = append(s.billing, *event)
	return nil
}

func (s *memPremiumStore) user(id uuid.UUID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}
