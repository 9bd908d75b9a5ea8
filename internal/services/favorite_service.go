// internal/services/favorite_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/utils"
)

type FavoriteService struct {
	db     *gorm.DB
	models *ModelService
}

type CreateFavoriteRequest struct {
	ModelID uuid.UUID `json:"model_id" validate:"required"`
}

// FavoriteView is a favorite with the model enriched like any catalog listing.
type FavoriteView struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	ModelID   uuid.UUID             `json:"model_id"`
	CreatedAt time.Time             `json:"created_at"`
	Model     *models.EnrichedModel `json:"model"`
}

func NewFavoriteService(db *gorm.DB, modelService *ModelService) *FavoriteService {
	return &FavoriteService{db: db, models: modelService}
}

func (s *FavoriteService) ListFavorites(ctx context.Context, params utils.PaginationParams) (utils.Page[models.Favorite], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).Count(&total).Error; err != nil {
		return utils.Page[models.Favorite]{}, apperrors.NewInternalError("count favorites", err)
	}
	if total == 0 {
		return utils.EmptyPage[models.Favorite](params), nil
	}

	var favorites []models.Favorite
	if err := utils.ApplyPagination(s.db.WithContext(ctx).Order("created_at DESC, id ASC"), params).Find(&favorites).Error; err != nil {
		return utils.Page[models.Favorite]{}, apperrors.NewInternalError("list favorites", err)
	}
	return utils.NewPage(favorites, total, params), nil
}

// ListByUser returns a user's favorites, newest first, each with its model's
// stats and brand.
func (s *FavoriteService) ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteView, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, apperrors.NewInternalError("list favorites", err)
	}

	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ModelID)
	}
	enriched, err := s.models.EnrichedByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]FavoriteView, 0, len(favorites))
	for _, f := range favorites {
		view := FavoriteView{ID: f.ID, UserID: f.UserID, ModelID: f.ModelID, CreatedAt: f.CreatedAt}
		if m, ok := enriched[f.ModelID]; ok {
			view.Model = &m
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateFavorite inserts a favorite; concurrent duplicates are settled by the
// (user, model) unique index and the loser gets the existing row.
func (s *FavoriteService) CreateFavorite(ctx context.Context, userID uuid.UUID, modelID uuid.UUID) (*models.Favorite, error) {
	favorite := &models.Favorite{UserID: userID, ModelID: modelID}

	err := insertUnique(ctx, s.db, favorite, i18n.KeyFavoriteExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.Favorite
		return &existing, tx.First(&existing, "user_id = ? AND model_id = ?", userID, modelID).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, apperrors.NewNotFoundError(i18n.KeyModelNotFound)
	}
	if err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	var favorite models.Favorite
	if err := s.db.WithContext(ctx).First(&favorite, "id = ?", favoriteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(i18n.KeyFavoriteNotFound)
		}
		return apperrors.NewInternalError("load favorite", err)
	}
	if favorite.UserID != userID {
		return apperrors.NewUnauthorizedError(i18n.KeyFavoriteNotFound)
	}

	if err := s.db.WithContext(ctx).Delete(&favorite).Error; err != nil {
		return apperrors.NewInternalError("delete favorite", err)
	}
	return nil
}
