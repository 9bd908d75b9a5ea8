// internal/handlers/brand.go
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

type BrandDirectory interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListByVehicleType(ctx context.Context, vehicleTypeID uuid.UUID) ([]models.Brand, error)
	SearchBrands(ctx context.Context, q string) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	CreateBrand(ctx context.Context, req *services.CreateBrandRequest) (*models.Brand, error)
	SetLogo(ctx context.Context, id uuid.UUID, url string) error
}

type BrandHandler struct {
	brands  BrandDirectory
	storage ImageStore
}

func NewBrandHandler(brands BrandDirectory, storage ImageStore) *BrandHandler {
	return &BrandHandler{brands: brands, storage: storage}
}

// GET /brands
func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.brands.ListBrands(c.Request.Context())
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, brands)
}

// GET /brands/type/:vehicleTypeId
func (h *BrandHandler) ListByVehicleType(c *gin.Context) {
	id, ok := uuidParam(c, "vehicleTypeId")
	if !ok {
		return
	}
	brands, err := h.brands.ListByVehicleType(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, brands)
}

// GET /brands/search?q=
func (h *BrandHandler) SearchBrands(c *gin.Context) {
	brands, err := h.brands.SearchBrands(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, brands)
}

// GET /brands/:id
func (h *BrandHandler) GetBrand(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.brands.GetBrand(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, brand)
}

// POST /brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req services.CreateBrandRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.brands.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, brand)
}

// POST /brands/:id/logo (multipart field "logo")
func (h *BrandHandler) UploadLogo(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyUploadInvalidFile)
		return
	}
	defer file.Close()

	result, err := h.storage.UploadImage(c.Request.Context(), file, header, services.UploadBrandLogo)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	if err := h.brands.SetLogo(c.Request.Context(), id, result.URL); err != nil {
		discardUpload(c, h.storage, result.Key)
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
