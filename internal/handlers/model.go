// internal/handlers/model.go
package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type ModelCatalog interface {
	ListModels(ctx context.Context, q services.ModelQuery) (utils.Page[models.EnrichedModel], error)
	GetModel(ctx context.Context, id uuid.UUID) (*models.EnrichedModel, error)
	CreateModel(ctx context.Context, req *services.CreateModelRequest) (*models.EnrichedModel, error)
	SetModelImage(ctx context.Context, id uuid.UUID, url string) error
}

type ImageStore interface {
	UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind services.UploadKind) (*services.UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// discardUpload removes a stored file whose owning row could not be updated.
func discardUpload(c *gin.Context, storage ImageStore, key string) {
	if err := storage.DeleteFile(c.Request.Context(), key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to remove orphaned upload")
	}
}

type ModelHandler struct {
	models  ModelCatalog
	storage ImageStore
}

func NewModelHandler(modelService ModelCatalog, storage ImageStore) *ModelHandler {
	return &ModelHandler{models: modelService, storage: storage}
}

func (h *ModelHandler) list(c *gin.Context, filter services.ModelFilter, sort services.ModelSort) {
	page, err := h.models.ListModels(c.Request.Context(), services.ModelQuery{
		Filter:           filter,
		Sort:             sort,
		PaginationParams: utils.GetPaginationParams(c),
	})
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /models?sort=insertion|favorites|comments|rating
func (h *ModelHandler) ListModels(c *gin.Context) {
	h.list(c, services.ModelFilter{}, services.ModelSort(c.DefaultQuery("sort", string(services.SortInsertion))))
}

// GET /models/brand/:brandId
func (h *ModelHandler) ListByBrand(c *gin.Context) {
	brandID, ok := uuidParam(c, "brandId")
	if !ok {
		return
	}
	h.list(c, services.ModelFilter{BrandID: &brandID}, services.SortInsertion)
}

// GET /models/type/:type
func (h *ModelHandler) ListByType(c *gin.Context) {
	h.list(c, services.ModelFilter{Type: c.Param("type")}, services.SortInsertion)
}

// GET /models/origin/:origin
func (h *ModelHandler) ListByOrigin(c *gin.Context) {
	h.list(c, services.ModelFilter{Origin: c.Param("origin")}, services.SortInsertion)
}

func (h *ModelHandler) TopFavorited(c *gin.Context) {
	h.list(c, services.ModelFilter{}, services.SortFavorites)
}

func (h *ModelHandler) TopCommented(c *gin.Context) {
	h.list(c, services.ModelFilter{}, services.SortComments)
}

func (h *ModelHandler) TopRated(c *gin.Context) {
	h.list(c, services.ModelFilter{}, services.SortRating)
}

// GET /models/search?q=
func (h *ModelHandler) Search(c *gin.Context) {
	q := c.Query("q")
	h.list(c, services.ModelFilter{Search: &q}, services.SortInsertion)
}

// GET /models/:id
func (h *ModelHandler) GetModel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	model, err := h.models.GetModel(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, model)
}

// POST /models
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req services.CreateModelRequest
	if !bindJSON(c, &req) {
		return
	}
	model, err := h.models.CreateModel(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, model)
}

// POST /models/:id/image (multipart field "image")
func (h *ModelHandler) UploadImage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyUploadInvalidFile)
		return
	}
	defer file.Close()

	result, err := h.storage.UploadImage(c.Request.Context(), file, header, services.UploadModelImage)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	if err := h.models.SetModelImage(c.Request.Context(), id, result.URL); err != nil {
		discardUpload(c, h.storage, result.Key)
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
