// internal/handlers/catalog.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type ReferenceData interface {
	ListVehicleTypes(ctx context.Context) ([]models.VehicleType, error)
	CreateVehicleType(ctx context.Context, req *services.CreateVehicleTypeRequest) (*models.VehicleType, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
	CreateCountry(ctx context.Context, req *services.CreateCountryRequest) (*models.Country, error)
	ListMotorcycleTypes(ctx context.Context) ([]models.MotorcycleType, error)
	CreateMotorcycleType(ctx context.Context, req *services.CreateMotorcycleTypeRequest) (*models.MotorcycleType, error)
}

// CatalogHandler serves vehicle types, countries and motorcycle types.
type CatalogHandler struct {
	catalog ReferenceData
}

func NewCatalogHandler(catalog ReferenceData) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// respond writes v, or the service error.
func respond(c *gin.Context, v interface{}, err error, created bool) {
	switch {
	case err != nil:
		utils.ErrorFromService(c, err)
	case created:
		utils.CreatedResponse(c, v)
	default:
		utils.SuccessResponse(c, v)
	}
}

// GET /vehicles
func (h *CatalogHandler) ListVehicleTypes(c *gin.Context) {
	out, err := h.catalog.ListVehicleTypes(c.Request.Context())
	respond(c, out, err, false)
}

// POST /vehicles
func (h *CatalogHandler) CreateVehicleType(c *gin.Context) {
	var req services.CreateVehicleTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.catalog.CreateVehicleType(c.Request.Context(), &req)
	respond(c, out, err, true)
}

// GET /countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	out, err := h.catalog.ListCountries(c.Request.Context())
	respond(c, out, err, false)
}

// POST /countries
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var req services.CreateCountryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.catalog.CreateCountry(c.Request.Context(), &req)
	respond(c, out, err, true)
}

// GET /types-of-motorcycle
func (h *CatalogHandler) ListMotorcycleTypes(c *gin.Context) {
	out, err := h.catalog.ListMotorcycleTypes(c.Request.Context())
	respond(c, out, err, false)
}

// POST /types-of-motorcycle
func (h *CatalogHandler) CreateMotorcycleType(c *gin.Context) {
	var req services.CreateMotorcycleTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.catalog.CreateMotorcycleType(c.Request.Context(), &req)
	respond(c, out, err, true)
}
