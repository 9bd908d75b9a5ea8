// internal/models/engagement.go
package models

import (
	"github.com/google/uuid"
)

type Comment struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_comments_user_model"`
	ModelID uuid.UUID `json:"model_id" gorm:"type:uuid;not null;uniqueIndex:idx_comments_user_model;index"`
	Rating  int       `json:"rating" gorm:"not null;check:chk_comments_rating,rating >= 1 AND rating <= 5"`
	Comment string    `json:"comment" gorm:"type:text"`

	User         *User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VehicleModel *VehicleModel `json:"-" gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE"`
}

type Favorite struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_model"`
	ModelID uuid.UUID `json:"model_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_model;index"`

	User         *User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VehicleModel *VehicleModel `json:"-" gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE"`
}
