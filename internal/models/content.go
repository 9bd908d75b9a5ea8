// internal/models/content.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Translation struct {
	BaseModel
	Key    string `json:"key" gorm:"uniqueIndex;size:255;not null"`
	TR     string `json:"tr" gorm:"column:tr;type:text;not null"`
	EN     string `json:"en" gorm:"column:en;type:text;not null"`
	Screen string `json:"screen" gorm:"size:100;index"`
}

// Value returns the text for lang, "en" or anything else for Turkish.
func (t Translation) Value(lang string) string {
	if lang == "en" {
		return t.EN
	}
	return t.TR
}

type UpdateConfig struct {
	BaseModel
	LatestVersion string `json:"latestVersion" gorm:"size:50;not null"`
	DownloadURL   string `json:"downloadUrl" gorm:"size:500;not null"`
	ForceUpdate   bool   `json:"forceUpdate" gorm:"not null;default:false"`
	ReleaseNotes  string `json:"releaseNotes" gorm:"type:text"`
}

// BillingEvent keeps the raw body of every accepted billing webhook.
type BillingEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventType  string         `json:"event_type" gorm:"size:64;index"`
	AppUserID  string         `json:"app_user_id" gorm:"size:128;index"`
	Outcome    string         `json:"outcome" gorm:"size:32"`
	Payload    datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	ReceivedAt time.Time      `json:"received_at" gorm:"autoCreateTime"`
}
