// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
)

type VehicleType struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`
}

type Brand struct {
	BaseModel
	VehicleTypeID *uuid.UUID `json:"vehicle_type_id" gorm:"type:uuid;index"`
	Name          string     `json:"name" gorm:"size:150;not null;index"`
	LogoURL       string     `json:"logo_url" gorm:"size:500"`
	Country       string     `json:"country" gorm:"size:100"`
	Description   string     `json:"description" gorm:"type:text"`
}

type Country struct {
	BaseModel
	Name     string `json:"country" gorm:"column:name;uniqueIndex;size:100;not null"`
	ImageURL string `json:"country_image_url" gorm:"size:500"`
}

// MotorcycleType is a body style such as naked, touring or scooter.
type MotorcycleType struct {
	BaseModel
	Type string `json:"type" gorm:"uniqueIndex;size:100;not null"`
}
