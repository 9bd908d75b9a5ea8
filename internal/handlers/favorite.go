// internal/handlers/favorite.go
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

type FavoriteStore interface {
	ListFavorites(ctx context.Context, params utils.PaginationParams) (utils.Page[models.Favorite], error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]services.FavoriteView, error)
	CreateFavorite(ctx context.Context, userID uuid.UUID, modelID uuid.UUID) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error
}

type FavoriteHandler struct {
	favorites FavoriteStore
}

func NewFavoriteHandler(favorites FavoriteStore) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	page, err := h.favorites.ListFavorites(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /favorites/user/:userId
func (h *FavoriteHandler) ListByUser(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	h.listFor(c, userID)
}

// GET /favorites/me
func (h *FavoriteHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	h.listFor(c, userID)
}

func (h *FavoriteHandler) listFor(c *gin.Context, userID uuid.UUID) {
	views, err := h.favorites.ListByUser(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, views)
}

// POST /favorites
func (h *FavoriteHandler) CreateFavorite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.CreateFavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	favorite, err := h.favorites.CreateFavorite(c.Request.Context(), userID, req.ModelID)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, favorite)
}

// DELETE /favorites/:id
func (h *FavoriteHandler) DeleteFavorite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	favoriteID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.favorites.DeleteFavorite(c.Request.Context(), userID, favoriteID); err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.MessageOK(c, i18n.KeyFavoriteDeleted)
}
