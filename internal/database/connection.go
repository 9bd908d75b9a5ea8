// internal/database/connection.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/models"
)

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open connects with the settings every environment shares. Unique and foreign
// key violations are translated to gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(dsn string, level string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(level)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(cfg.DSN(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

// Ping checks the connection within ctx. Used by the health endpoint.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.VehicleType{},
		&models.Brand{},
		&models.Country{},
		&models.MotorcycleType{},
		&models.VehicleModel{},
		&models.Comment{},
		&models.Favorite{},
		&models.Translation{},
		&models.UpdateConfig{},
		&models.BillingEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		// Expiry sweep scans premium users by end date
		"CREATE INDEX IF NOT EXISTS idx_users_premium_expiry ON users(premium_end_date) WHERE is_premium",

		// Listing order and filters
		"CREATE INDEX IF NOT EXISTS idx_vehicle_models_created_id ON vehicle_models(created_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_vehicle_models_brand_created ON vehicle_models(brand_id, created_at)",

		// Favorites by user, newest first
		"CREATE INDEX IF NOT EXISTS idx_favorites_user_created ON favorites(user_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_update_configs_created ON update_configs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedInitialData creates reference rows and, when configured, the first admin.
func SeedInitialData(db *gorm.DB, seed config.SeedConfig) error {
	logrus.Info("Seeding initial data...")

	for _, name := range []string{"Motosiklet", "Scooter", "ATV"} {
		vt := models.VehicleType{Name: name}
		if err := db.Where(models.VehicleType{Name: name}).FirstOrCreate(&vt).Error; err != nil {
			return fmt.Errorf("failed to seed vehicle type %s: %w", name, err)
		}
	}

	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", seed.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	admin := &models.User{
		Name:  "Admin",
		Email: seed.AdminEmail,
		Role:  models.RoleAdmin,
	}
	if err := admin.SetPassword(seed.AdminPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithField("email", seed.AdminEmail).Info("Default admin user created")
	return nil
}

func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	return db.Transaction(fn)
}
