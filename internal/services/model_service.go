// internal/services/model_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/metrics"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/search"
	"github.com/motohanem/moto-backend/internal/utils"
)

type ModelSort string

const (
	SortInsertion ModelSort = "insertion"
	SortFavorites ModelSort = "favorites"
	SortComments  ModelSort = "comments"
	SortRating    ModelSort = "rating"
)

// Ties always break on id so pages stay stable.
var modelSortOrders = map[ModelSort]string{
	SortInsertion: "vehicle_models.created_at ASC, vehicle_models.id ASC",
	SortFavorites: "favorite_count DESC, vehicle_models.id ASC",
	SortComments:  "comment_count DESC, vehicle_models.id ASC",
	SortRating:    "average_rating DESC, vehicle_models.id ASC",
}

type ModelFilter struct {
	BrandID *uuid.UUID
	Type    string
	Origin  string
	// Search, when set, is fuzzy matched against "<brand name> <model name>".
	Search *string
}

type ModelQuery struct {
	Filter ModelFilter
	Sort   ModelSort
	utils.PaginationParams
}

type CreateModelRequest struct {
	BrandID         uuid.UUID `json:"brand_id" validate:"required"`
	Model           string    `json:"model" validate:"required,max=150"`
	Type            string    `json:"type" validate:"max=100"`
	EngineTiming    string    `json:"engine_timing" validate:"max=100"`
	CylinderCount   *int      `json:"cylinder_count" validate:"omitempty,min=0"`
	Transmission    string    `json:"transmission" validate:"max=100"`
	CoolingType     string    `json:"cooling_type" validate:"max=100"`
	Origin          string    `json:"origin" validate:"max=100"`
	DisplacementCC  *float64  `json:"displacement_cc" validate:"omitempty,min=0"`
	PowerHpRpm      string    `json:"power_hp_rpm" validate:"max=100"`
	TorqueNmRpm     string    `json:"torque_nm_rpm" validate:"max=100"`
	TopSpeedKmh     *float64  `json:"top_speed_kmh" validate:"omitempty,min=0"`
	Acceleration    *float64  `json:"acceleration_0_100_kmh_s" validate:"omitempty,min=0"`
	FuelConsumption *float64  `json:"fuel_consumption_km_per_l" validate:"omitempty,min=0"`
	FuelType        string    `json:"fuel_type" validate:"max=100"`
	SeatHeightMM    *float64  `json:"seat_height_mm" validate:"omitempty,min=0"`
	WheelbaseMM     *float64  `json:"wheelbase_mm" validate:"omitempty,min=0"`
	WetWeightKg     *float64  `json:"wet_weight_kg" validate:"omitempty,min=0"`
	FuelTankL       *float64  `json:"fuel_tank_l" validate:"omitempty,min=0"`
	FrontSuspension string    `json:"front_suspension" validate:"max=255"`
	RearSuspension  string    `json:"rear_suspension" validate:"max=255"`
	BrakeFront      string    `json:"brake_front" validate:"max=255"`
	BrakeRear       string    `json:"brake_rear" validate:"max=255"`
	ABS             string    `json:"abs" validate:"max=100"`
	TireFront       string    `json:"tire_front" validate:"max=100"`
	TireRear        string    `json:"tire_rear" validate:"max=100"`
	InstrumentPanel string    `json:"instrument_panel" validate:"max=255"`
	Headlight       string    `json:"headlight" validate:"max=255"`
	ModelImageURL   string    `json:"model_image_url" validate:"omitempty,url,max=500"`
}

type ModelService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewModelService(db *gorm.DB, m *metrics.Metrics) *ModelService {
	return &ModelService{db: db, metrics: m}
}

// filtered returns a fresh query over vehicle_models with the filter applied.
// ok is false when the filter can match nothing.
func (s *ModelService) filtered(ctx context.Context, f ModelFilter) (query *gorm.DB, ok bool) {
	query = s.db.WithContext(ctx).Model(&models.VehicleModel{})

	if f.BrandID != nil {
		query = query.Where("vehicle_models.brand_id = ?", *f.BrandID)
	}
	if f.Type != "" {
		query = query.Where("vehicle_models.type = ?", f.Type)
	}
	if f.Origin != "" {
		query = query.Where("vehicle_models.origin = ?", f.Origin)
	}
	if f.Search != nil {
		pattern, ok := search.Pattern(*f.Search)
		if !ok {
			return nil, false
		}
		query = query.
			Joins("LEFT JOIN brands ON brands.id = vehicle_models.brand_id").
			Where("(COALESCE(brands.name, '') || ' ' || vehicle_models.model) ~* ?", pattern)
	}
	return query, true
}

// ListModels returns one page of enriched models. The total is counted on the
// filtered set before paging.
func (s *ModelService) ListModels(ctx context.Context, q ModelQuery) (utils.Page[models.EnrichedModel], error) {
	params := utils.NewPaginationParams(q.Page, q.Limit)
	order, known := modelSortOrders[q.Sort]
	if !known {
		q.Sort, order = SortInsertion, modelSortOrders[SortInsertion]
	}
	if s.metrics != nil {
		s.metrics.CatalogQueries.WithLabelValues(string(q.Sort)).Inc()
	}

	countQuery, ok := s.filtered(ctx, q.Filter)
	if !ok {
		return utils.EmptyPage[models.EnrichedModel](params), nil
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return utils.Page[models.EnrichedModel]{}, apperrors.NewInternalError("count models", err)
	}
	if total == 0 {
		return utils.EmptyPage[models.EnrichedModel](params), nil
	}

	listQuery, _ := s.filtered(ctx, q.Filter)
	var docs []models.EnrichedModel
	err := utils.ApplyPagination(
		withModelStats(listQuery).
			Select("vehicle_models.*, "+modelStatsColumns).
			Order(order),
		params,
	).Scan(&docs).Error
	if err != nil {
		return utils.Page[models.EnrichedModel]{}, apperrors.NewInternalError("list models", err)
	}

	if err := s.attachBrands(ctx, docs); err != nil {
		return utils.Page[models.EnrichedModel]{}, err
	}
	return utils.NewPage(docs, total, params), nil
}

// GetModel returns a single enriched model.
func (s *ModelService) GetModel(ctx context.Context, id uuid.UUID) (*models.EnrichedModel, error) {
	found, err := s.EnrichedByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	model, ok := found[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(i18n.KeyModelNotFound)
	}
	return &model, nil
}

// EnrichedByIDs loads the given models with stats and brands, keyed by id.
func (s *ModelService) EnrichedByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.EnrichedModel, error) {
	out := make(map[uuid.UUID]models.EnrichedModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var docs []models.EnrichedModel
	query := s.db.WithContext(ctx).Model(&models.VehicleModel{}).Where("vehicle_models.id IN ?", ids)
	err := withModelStats(query).
		Select("vehicle_models.*, " + modelStatsColumns).
		Scan(&docs).Error
	if err != nil {
		return nil, apperrors.NewInternalError("load models", err)
	}
	if err := s.attachBrands(ctx, docs); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		out[doc.ID] = doc
	}
	return out, nil
}

// attachBrands resolves brands for docs in one query. Models whose brand is
// gone keep a nil Brand.
func (s *ModelService) attachBrands(ctx context.Context, docs []models.EnrichedModel) error {
	if len(docs) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(docs))
	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		if _, ok := seen[doc.BrandID]; !ok {
			seen[doc.BrandID] = struct{}{}
			ids = append(ids, doc.BrandID)
		}
	}

	var brands []models.Brand
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&brands).Error; err != nil {
		return apperrors.NewInternalError("load brands", err)
	}
	byID := make(map[uuid.UUID]*models.Brand, len(brands))
	for i := range brands {
		byID[brands[i].ID] = &brands[i]
	}

	for i := range docs {
		docs[i].Brand = byID[docs[i].BrandID]
	}
	return nil
}

func (s *ModelService) CreateModel(ctx context.Context, req *CreateModelRequest) (*models.EnrichedModel, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", req.BrandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyBrandNotFound)
		}
		return nil, apperrors.NewInternalError("load brand", err)
	}

	model := &models.VehicleModel{
		BrandID:         req.BrandID,
		Model:           req.Model,
		Type:            req.Type,
		EngineTiming:    req.EngineTiming,
		CylinderCount:   req.CylinderCount,
		Transmission:    req.Transmission,
		CoolingType:     req.CoolingType,
		Origin:          req.Origin,
		DisplacementCC:  req.DisplacementCC,
		PowerHpRpm:      req.PowerHpRpm,
		TorqueNmRpm:     req.TorqueNmRpm,
		TopSpeedKmh:     req.TopSpeedKmh,
		Acceleration:    req.Acceleration,
		FuelConsumption: req.FuelConsumption,
		FuelType:        req.FuelType,
		SeatHeightMM:    req.SeatHeightMM,
		WheelbaseMM:     req.WheelbaseMM,
		WetWeightKg:     req.WetWeightKg,
		FuelTankL:       req.FuelTankL,
		FrontSuspension: req.FrontSuspension,
		RearSuspension:  req.RearSuspension,
		BrakeFront:      req.BrakeFront,
		BrakeRear:       req.BrakeRear,
		ABS:             req.ABS,
		TireFront:       req.TireFront,
		TireRear:        req.TireRear,
		InstrumentPanel: req.InstrumentPanel,
		Headlight:       req.Headlight,
		ModelImageURL:   req.ModelImageURL,
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, apperrors.NewInternalError("create model", err)
	}

	// A new model has no comments or favorites yet.
	return &models.EnrichedModel{VehicleModel: *model, Brand: &brand}, nil
}

// SetModelImage stores the public URL of a model's picture.
func (s *ModelService) SetModelImage(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).Model(&models.VehicleModel{}).Where("id = ?", id).Update("model_image_url", url)
	if result.Error != nil {
		return apperrors.NewInternalError("update model image", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(i18n.KeyModelNotFound)
	}
	return nil
}
