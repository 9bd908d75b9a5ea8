// internal/services/user_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyUserNotFound)
		}
		return nil, apperrors.NewInternalError("load user", err)
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context, params utils.PaginationParams) (utils.Page[models.User], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return utils.Page[models.User]{}, apperrors.NewInternalError("count users", err)
	}
	if total == 0 {
		return utils.EmptyPage[models.User](params), nil
	}

	var users []models.User
	if err := utils.ApplyPagination(s.db.WithContext(ctx).Order("created_at ASC, id ASC"), params).Find(&users).Error; err != nil {
		return utils.Page[models.User]{}, apperrors.NewInternalError("list users", err)
	}
	return utils.NewPage(users, total, params), nil
}
