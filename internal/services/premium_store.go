// internal/services/premium_store.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/database"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
)

// PremiumStore is the storage the premium service and the expiry sweep need.
type PremiumStore interface {
	// MutateUser loads the user under a row lock, calls fn and saves the premium
	// fields if fn reports a change. A missing user is a NotFoundError.
	MutateUser(ctx context.Context, id uuid.UUID, fn func(u *models.User) (bool, error)) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ExpirePremiumBefore resets every premium user whose end date is before
	// now, in one statement, and returns how many were reset.
	ExpirePremiumBefore(ctx context.Context, now time.Time) (int64, error)
	RecordBillingEvent(ctx context.Context, event *models.BillingEvent) error
}

var premiumColumns = []string{"is_premium", "subscription_type", "premium_start_date", "premium_end_date"}

type GormPremiumStore struct {
	db *gorm.DB
}

func NewGormPremiumStore(db *gorm.DB) *GormPremiumStore {
	return &GormPremiumStore{db: db}
}

// MutateUser serializes concurrent writers for the same user with SELECT ... FOR UPDATE.
func (s *GormPremiumStore) MutateUser(ctx context.Context, id uuid.UUID, fn func(u *models.User) (bool, error)) (*models.User, error) {
	var user models.User
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(i18n.KeyUserNotFound)
		}
		if err != nil {
			return apperrors.NewInternalError("lock user", err)
		}

		changed, err := fn(&user)
		if err != nil || !changed {
			return err
		}
		if err := tx.Model(&user).Select(premiumColumns).Updates(&user).Error; err != nil {
			return apperrors.NewInternalError("save premium state", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormPremiumStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyUserNotFound)
		}
		return nil, apperrors.NewInternalError("load user", err)
	}
	return &user, nil
}

func (s *GormPremiumStore) ExpirePremiumBefore(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_premium = ? AND premium_end_date < ?", true, now).
		Updates(map[string]interface{}{
			"is_premium":         false,
			"subscription_type":  nil,
			"premium_start_date": nil,
			"premium_end_date":   nil,
		})
	if result.Error != nil {
		return 0, apperrors.NewInternalError("expire premium users", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormPremiumStore) RecordBillingEvent(ctx context.Context, event *models.BillingEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}
