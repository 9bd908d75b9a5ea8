// internal/services/translation_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
)

const (
	translationCachePrefix = "translations:"
	translationCacheTTL    = 10 * time.Minute
)

// TranslationCache is the part of *cache.Cache the translation map needs.
type TranslationCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

type CreateTranslationRequest struct {
	Key    string `json:"key" validate:"required,max=255"`
	TR     string `json:"tr" validate:"required"`
	EN     string `json:"en" validate:"required"`
	Screen string `json:"screen" validate:"max=100"`
}

type TranslationService struct {
	db    *gorm.DB
	cache TranslationCache
	log   logrus.FieldLogger
}

// NewTranslationService works without a cache; pass nil when redis is disabled.
func NewTranslationService(db *gorm.DB, cache TranslationCache, log logrus.FieldLogger) *TranslationService {
	return &TranslationService{db: db, cache: cache, log: log}
}

func translationCacheKey(lang, screen string) string {
	if screen == "" {
		screen = "*all"
	}
	return translationCachePrefix + lang + ":" + screen
}

// Map returns key -> text in lang, optionally limited to one screen.
func (s *TranslationService) Map(ctx context.Context, lang, screen string) (map[string]string, error) {
	key := translationCacheKey(lang, screen)
	if s.cache != nil {
		var cached map[string]string
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).Warn("Translation cache read failed")
		} else if found {
			return cached, nil
		}
	}

	var rows []models.Translation
	query := s.db.WithContext(ctx).Order("key ASC")
	if screen != "" {
		query = query.Where("screen = ?", screen)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperrors.NewInternalError("list translations", err)
	}

	out := make(map[string]string, len(rows))
	for _, t := range rows {
		out[t.Key] = t.Value(lang)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, translationCacheTTL); err != nil {
			s.log.WithError(err).Warn("Translation cache write failed")
		}
	}
	return out, nil
}

func (s *TranslationService) Create(ctx context.Context, req *CreateTranslationRequest) (*models.Translation, error) {
	t := &models.Translation{Key: req.Key, TR: req.TR, EN: req.EN, Screen: req.Screen}
	err := insertUnique(ctx, s.db, t, i18n.KeyTranslationExists, func(tx *gorm.DB) (interface{}, error) {
		var existing models.Translation
		return &existing, tx.First(&existing, "key = ?", req.Key).Error
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, translationCachePrefix); err != nil {
			s.log.WithError(err).Warn("Translation cache invalidation failed")
		}
	}
	return t, nil
}
