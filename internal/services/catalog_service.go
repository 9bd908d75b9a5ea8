// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
)

// CatalogService manages the small reference tables: vehicle types, countries
// and motorcycle body types.
type CatalogService struct {
	db *gorm.DB
}

type CreateVehicleTypeRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type CreateCountryRequest struct {
	Country         string `json:"country" validate:"required,max=100"`
	CountryImageURL string `json:"country_image_url" validate:"omitempty,url,max=500"`
}

type CreateMotorcycleTypeRequest struct {
	Type string `json:"type" validate:"required,max=100"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListVehicleTypes(ctx context.Context) ([]models.VehicleType, error) {
	out := []models.VehicleType{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, apperrors.NewInternalError("list vehicle types", err)
	}
	return out, nil
}

func (s *CatalogService) CreateVehicleType(ctx context.Context, req *CreateVehicleTypeRequest) (*models.VehicleType, error) {
	vt := &models.VehicleType{Name: req.Name}
	err := insertUnique(ctx, s.db, vt, i18n.KeyVehicleTypeExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.VehicleType
		return &existing, tx.First(&existing, "name = ?", req.Name).Error
	})
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func (s *CatalogService) ListCountries(ctx context.Context) ([]models.Country, error) {
	out := []models.Country{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, apperrors.NewInternalError("list countries", err)
	}
	return out, nil
}

func (s *CatalogService) CreateCountry(ctx context.Context, req *CreateCountryRequest) (*models.Country, error) {
	c := &models.Country{Name: req.Country, ImageURL: req.CountryImageURL}
	err := insertUnique(ctx, s.db, c, i18n.KeyCountryExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.Country
		return &existing, tx.First(&existing, "name = ?", req.Country).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListMotorcycleTypes(ctx context.Context) ([]models.MotorcycleType, error) {
	out := []models.MotorcycleType{}
	if err := s.db.WithContext(ctx).Order("type ASC").Find(&out).Error; err != nil {
		return nil, apperrors.NewInternalError("list motorcycle types", err)
	}
	return out, nil
}

func (s *CatalogService) CreateMotorcycleType(ctx context.Context, req *CreateMotorcycleTypeRequest) (*models.MotorcycleType, error) {
	mt := &models.MotorcycleType{Type: req.Type}
	err := insertUnique(ctx, s.db, mt, i18n.KeyMotorcycleTypeExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.MotorcycleType
		return &existing, tx.First(&existing, "type = ?", req.Type).Error
	})
	if err != nil {
		return nil, err
	}
	return mt, nil
}

// insertUnique inserts record and relies on the unique index alone to reject
// duplicates. On a duplicate it loads the winning row with findExisting and
// returns it inside a ConflictError.
func insertUnique(ctx context.Context, db *gorm.DB, record interface{}, conflictKey string, findExisting func(*gorm.DB) (interface{}, error)) error {
	err := db.WithContext(ctx).Create(record).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewInternalError("insert", err)
	}

	existing, findErr := findExisting(db.WithContext(ctx))
	if findErr != nil {
		// The winner may have been deleted in between; still a conflict.
		return apperrors.NewConflictError(conflictKey, nil)
	}
	return apperrors.NewConflictError(conflictKey, existing)
}
