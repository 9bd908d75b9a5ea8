// internal/services/brand_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/search"
)

type CreateBrandRequest struct {
	VehicleTypeID *uuid.UUID `json:"vehicle_type_id"`
	Name          string     `json:"name" validate:"required,max=150"`
	LogoURL       string     `json:"logo_url" validate:"omitempty,url,max=500"`
	Country       string     `json:"country" validate:"max=100"`
	Description   string     `json:"description" validate:"max=5000"`
}

type BrandService struct {
	db *gorm.DB
}

func NewBrandService(db *gorm.DB) *BrandService {
	return &BrandService{db: db}
}

func (s *BrandService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands := []models.Brand{}
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&brands).Error; err != nil {
		return nil, apperrors.NewInternalError("list brands", err)
	}
	return brands, nil
}

func (s *BrandService) ListByVehicleType(ctx context.Context, vehicleTypeID uuid.UUID) ([]models.Brand, error) {
	brands := []models.Brand{}
	err := s.db.WithContext(ctx).
		Where("vehicle_type_id = ?", vehicleTypeID).
		Order("name ASC, id ASC").
		Find(&brands).Error
	if err != nil {
		return nil, apperrors.NewInternalError("list brands", err)
	}
	return brands, nil
}

// SearchBrands fuzzy matches q against brand names. The brand table is small,
// so matching happens in process.
func (s *BrandService) SearchBrands(ctx context.Context, q string) ([]models.Brand, error) {
	matcher := search.Compile(q)
	if matcher.Empty() {
		return []models.Brand{}, nil
	}

	all, err := s.ListBrands(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Brand, 0, len(all))
	for _, b := range all {
		if matcher.Match(b.Name) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (s *BrandService) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyBrandNotFound)
		}
		return nil, apperrors.NewInternalError("load brand", err)
	}
	return &brand, nil
}

func (s *BrandService) CreateBrand(ctx context.Context, req *CreateBrandRequest) (*models.Brand, error) {
	if req.VehicleTypeID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.VehicleType{}).Where("id = ?", *req.VehicleTypeID).Count(&count).Error; err != nil {
			return nil, apperrors.NewInternalError("check vehicle type", err)
		}
		if count == 0 {
			return nil, apperrors.NewNotFoundError(i18n.KeyVehicleTypeNotFound)
		}
	}

	brand := &models.Brand{
		VehicleTypeID: req.VehicleTypeID,
		Name:          req.Name,
		LogoURL:       req.LogoURL,
		Country:       req.Country,
		Description:   req.Description,
	}
	if err := s.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, apperrors.NewInternalError("create brand", err)
	}
	return brand, nil
}

func (s *BrandService) SetLogo(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Update("logo_url", url)
	if result.Error != nil {
		return apperrors.NewInternalError("update brand logo", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(i18n.KeyBrandNotFound)
	}
	return nil
}
