// internal/services/comment_service.go
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

type CommentService struct {
	db *gorm.DB
}

type CreateCommentRequest struct {
	ModelID uuid.UUID `json:"model_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" validate:"max=2000"`
}

type UpdateCommentRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// CommentView is a comment with its author's public profile.
type CommentView struct {
	ID        uuid.UUID          `json:"id"`
	ModelID   uuid.UUID          `json:"model_id"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	User      *models.PublicUser `json:"user"`
}

type ModelComments struct {
	AverageRating float64       `json:"averageRating"`
	CommentCount  int64         `json:"commentCount"`
	Comments      []CommentView `json:"comments"`
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func toCommentView(c models.Comment) CommentView {
	view := CommentView{
		ID:        c.ID,
		ModelID:   c.ModelID,
		Rating:    c.Rating,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.User != nil {
		view.User = &models.PublicUser{ID: c.User.ID.String(), Name: c.User.Name, AvatarURL: c.User.AvatarURL}
	}
	return view
}

func (s *CommentService) ListComments(ctx context.Context, params utils.PaginationParams) (utils.Page[CommentView], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return utils.Page[CommentView]{}, apperrors.NewInternalError("count comments", err)
	}
	if total == 0 {
		return utils.EmptyPage[CommentView](params), nil
	}

	var comments []models.Comment
	err := utils.ApplyPagination(s.db.WithContext(ctx).Preload("User").Order("created_at DESC, id ASC"), params).
		Find(&comments).Error
	if err != nil {
		return utils.Page[CommentView]{}, apperrors.NewInternalError("list comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(c))
	}
	return utils.NewPage(views, total, params), nil
}

// ListByModel returns a model's comments, newest first, with the average rating
// computed by the shared stats query.
func (s *CommentService) ListByModel(ctx context.Context, modelID uuid.UUID) (*ModelComments, error) {
	stats, err := ModelStatsFor(ctx, s.db, []uuid.UUID{modelID})
	if err != nil {
		return nil, apperrors.NewInternalError("model stats", err)
	}
	modelStats, ok := stats[modelID]
	if !ok {
		return nil, apperrors.NewNotFoundError(i18n.KeyModelNotFound)
	}

	var comments []models.Comment
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("model_id = ?", modelID).
		Order("created_at DESC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, apperrors.NewInternalError("list comments", err)
	}

	out := &ModelComments{
		AverageRating: modelStats.AverageRating,
		CommentCount:  modelStats.CommentCount,
		Comments:      make([]CommentView, 0, len(comments)),
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, toCommentView(c))
	}
	return out, nil
}

// CreateComment inserts a comment. The (user, model) unique index is the only
// duplicate check; a losing insert gets the existing comment back.
func (s *CommentService) CreateComment(ctx context.Context, userID uuid.UUID, req *CreateCommentRequest) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  userID,
		ModelID: req.ModelID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	err := insertUnique(ctx, s.db, comment, i18n.KeyCommentExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.Comment
		return &existing, tx.First(&existing, "user_id = ? AND model_id = ?", userID, req.ModelID).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, apperrors.NewNotFoundError(i18n.KeyModelNotFound)
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ownedComment loads a comment and checks that userID wrote it. Both a missing
// comment and someone else's comment read as not found.
func (s *CommentService) ownedComment(tx *gorm.DB, userID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyCommentNotFound)
		}
		return nil, apperrors.NewInternalError("load comment", err)
	}
	if comment.UserID != userID {
		return nil, apperrors.NewUnauthorizedError(i18n.KeyCommentNotFound)
	}
	return &comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.ownedComment(s.db.WithContext(ctx), userID, commentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
		comment.Rating = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
		comment.Comment = *req.Comment
	}
	if len(updates) == 0 {
		return comment, nil
	}

	if err := s.db.WithContext(ctx).Model(comment).Updates(updates).Error; err != nil {
		return nil, apperrors.NewInternalError("update comment", err)
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.ownedComment(s.db.WithContext(ctx), userID, commentID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return apperrors.NewInternalError("delete comment", err)
	}
	return nil
}
