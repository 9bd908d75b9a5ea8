// internal/services/update_service.go
package services

import (
	"context"
	"errors"

	"golang.org/x/mod/semver"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/utils"
)

type CreateUpdateConfigRequest struct {
	LatestVersion string `json:"latestVersion" validate:"required,semver"`
	DownloadURL   string `json:"downloadUrl" validate:"required,url"`
	ForceUpdate   bool   `json:"forceUpdate"`
	ReleaseNotes  string `json:"releaseNotes"`
}

type UpdateCheck struct {
	LatestVersion   string `json:"latestVersion"`
	DownloadURL     string `json:"downloadUrl"`
	ForceUpdate     bool   `json:"forceUpdate"`
	ReleaseNotes    string `json:"releaseNotes"`
	UpdateAvailable bool   `json:"updateAvailable"`
}

type UpdateService struct {
	db *gorm.DB
}

func NewUpdateService(db *gorm.DB) *UpdateService {
	return &UpdateService{db: db}
}

// Check compares the client's version with the newest stored config.
func (s *UpdateService) Check(ctx context.Context, currentVersion string) (*UpdateCheck, error) {
	var latest models.UpdateConfig
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(i18n.KeyUpdateNotFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("load update config", err)
	}

	return &UpdateCheck{
		LatestVersion:   latest.LatestVersion,
		DownloadURL:     latest.DownloadURL,
		ForceUpdate:     latest.ForceUpdate,
		ReleaseNotes:    latest.ReleaseNotes,
		UpdateAvailable: UpdateAvailable(currentVersion, latest.LatestVersion),
	}, nil
}

func (s *UpdateService) Create(ctx context.Context, req *CreateUpdateConfigRequest) (*models.UpdateConfig, error) {
	cfg := &models.UpdateConfig{
		LatestVersion: req.LatestVersion,
		DownloadURL:   req.DownloadURL,
		ForceUpdate:   req.ForceUpdate,
		ReleaseNotes:  req.ReleaseNotes,
	}
	if err := s.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, apperrors.NewInternalError("create update config", err)
	}
	return cfg, nil
}

// UpdateAvailable is true when latest is a newer version than current. If
// either side does not parse, any difference counts as an update.
func UpdateAvailable(current, latest string) bool {
	c, l := utils.CanonicalVersion(current), utils.CanonicalVersion(latest)
	if c == "" || l == "" {
		return current != "" && current != latest
	}
	return semver.Compare(c, l) < 0
}
