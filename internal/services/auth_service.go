// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

type AuthResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	IsPremium bool      `json:"isPremium"`
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user := &models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		AvatarURL: req.AvatarURL,
		Role:      models.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.NewInternalError("hash password", err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewValidationError(i18n.KeyAuthUserExists)
		}
		return nil, apperrors.NewInternalError("create user", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidationError(i18n.KeyAuthInvalidCredentials)
		}
		return nil, apperrors.NewInternalError("load user", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyAuthInvalidCredentials)
	}

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID, string(user.Role), s.cfg.JWT.TTL)
	if err != nil {
		return nil, apperrors.NewInternalError("sign token", err)
	}

	return &AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Role),
		IsPremium: user.IsPremium,
		Token:     token,
		ExpiresIn: int64(s.cfg.JWT.TTL / time.Second),
	}, nil
}
