// internal/models/vehicle_model.go
package models

import (
	"github.com/google/uuid"
)

// VehicleModel is a catalog entry. BrandID is a soft reference: a model whose
// brand has been removed is still listed, without its brand.
type VehicleModel struct {
	BaseModel
	BrandID uuid.UUID `json:"brand_id" gorm:"type:uuid;not null;index"`
	Model   string    `json:"model" gorm:"size:150;not null"`

	Type            string   `json:"type" gorm:"size:100;index"`
	EngineTiming    string   `json:"engine_timing" gorm:"size:100"`
	CylinderCount   *int     `json:"cylinder_count"`
	Transmission    string   `json:"transmission" gorm:"size:100"`
	CoolingType     string   `json:"cooling_type" gorm:"size:100"`
	Origin          string   `json:"origin" gorm:"size:100;index"`
	DisplacementCC  *float64 `json:"displacement_cc"`
	PowerHpRpm      string   `json:"power_hp_rpm" gorm:"size:100"`
	TorqueNmRpm     string   `json:"torque_nm_rpm" gorm:"size:100"`
	TopSpeedKmh     *float64 `json:"top_speed_kmh"`
	Acceleration    *float64 `json:"acceleration_0_100_kmh_s" gorm:"column:acceleration_0_100_kmh_s"`
	FuelConsumption *float64 `json:"fuel_consumption_km_per_l" gorm:"column:fuel_consumption_km_per_l"`
	FuelType        string   `json:"fuel_type" gorm:"size:100"`
	SeatHeightMM    *float64 `json:"seat_height_mm"`
	WheelbaseMM     *float64 `json:"wheelbase_mm"`
	WetWeightKg     *float64 `json:"wet_weight_kg"`
	FuelTankL       *float64 `json:"fuel_tank_l"`
	FrontSuspension string   `json:"front_suspension" gorm:"size:255"`
	RearSuspension  string   `json:"rear_suspension" gorm:"size:255"`
	BrakeFront      string   `json:"brake_front" gorm:"size:255"`
	BrakeRear       string   `json:"brake_rear" gorm:"size:255"`
	ABS             string   `json:"abs" gorm:"column:abs;size:100"`
	TireFront       string   `json:"tire_front" gorm:"size:100"`
	TireRear        string   `json:"tire_rear" gorm:"size:100"`
	InstrumentPanel string   `json:"instrument_panel" gorm:"size:255"`
	Headlight       string   `json:"headlight" gorm:"size:255"`
	ModelImageURL   string   `json:"model_image_url" gorm:"size:500"`
}

// ModelStats are derived per request from comments and favorites and never stored.
type ModelStats struct {
	CommentCount  int64   `json:"commentCount"`
	FavoriteCount int64   `json:"favoriteCount"`
	AverageRating float64 `json:"averageRating"`
}

// EnrichedModel is a model with its stats and resolved brand.
type EnrichedModel struct {
	VehicleModel
	ModelStats
	Brand *Brand `json:"brand,omitempty" gorm:"-"`
}
