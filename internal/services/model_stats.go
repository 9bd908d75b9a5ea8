// internal/services/model_stats.go
package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/models"
)

// modelStatsColumns selects the derived stats. Models without comments or
// favorites get zeros, never NULL.
const modelStatsColumns = "COALESCE(cs.comment_count, 0) AS comment_count, " +
	"COALESCE(fs.favorite_count, 0) AS favorite_count, " +
	"COALESCE(cs.average_rating, 0) AS average_rating"

func commentStatsQuery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Comment{}).
		Select("model_id, COUNT(*) AS comment_count, AVG(rating)::float8 AS average_rating").
		Group("model_id")
}

func favoriteStatsQuery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Favorite{}).
		Select("model_id, COUNT(*) AS favorite_count").
		Group("model_id")
}

// withModelStats joins the grouped comment and favorite stats onto a query over
// vehicle_models. Every listing goes through here so the numbers always agree.
func withModelStats(query *gorm.DB) *gorm.DB {
	return query.
		Joins("LEFT JOIN (?) AS cs ON cs.model_id = vehicle_models.id", commentStatsQuery(query)).
		Joins("LEFT JOIN (?) AS fs ON fs.model_id = vehicle_models.id", favoriteStatsQuery(query))
}

type modelStatsRow struct {
	ModelID uuid.UUID
	models.ModelStats
}

// ModelStatsFor computes stats for the given models in one query. Ids that do
// not exist are absent from the result.
func ModelStatsFor(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.ModelStats, error) {
	out := make(map[uuid.UUID]models.ModelStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []modelStatsRow
	query := db.WithContext(ctx).Model(&models.VehicleModel{}).Where("vehicle_models.id IN ?", ids)
	err := withModelStats(query).
		Select("vehicle_models.id AS model_id, " + modelStatsColumns).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.ModelID] = row.ModelStats
	}
	return out, nil
}
