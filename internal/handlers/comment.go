// internal/handlers/comment.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type CommentStore interface {
	ListComments(ctx context.Context, params utils.PaginationParams) (utils.Page[services.CommentView], error)
	ListByModel(ctx context.Context, modelID uuid.UUID) (*services.ModelComments, error)
	CreateComment(ctx context.Context, userID uuid.UUID, req *services.CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *services.UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

type CommentHandler struct {
	comments CommentStore
}

func NewCommentHandler(comments CommentStore) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// GET /comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	page, err := h.comments.ListComments(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /comments/model/:modelId
func (h *CommentHandler) ListByModel(c *gin.Context) {
	modelID, ok := uuidParam(c, "modelId")
	if !ok {
		return
	}
	result, err := h.comments.ListByModel(c.Request.Context(), modelID)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// POST /comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.CreateComment(c.Request.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, comment)
}

// PATCH /comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, comment)
}

// DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.comments.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.MessageOK(c, i18n.KeyCommentDeleted)
}
