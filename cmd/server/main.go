// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/motohanem/moto-backend/internal/cache"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/database"
	"github.com/motohanem/moto-backend/internal/events"
	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/metrics"
	"github.com/motohanem/moto-backend/internal/router"
	"github.com/motohanem/moto-backend/internal/services"
)

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}
	if err := database.SeedInitialData(db, cfg.Seed); err != nil {
		logrus.WithError(err).Fatal("Failed to seed database")
	}

	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Redis is optional: translations go uncached and the sweep runs without
	// a cluster lock.
	var redisCache *cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err = cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, continuing without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := events.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, premium events will not be published")
		} else {
			amqpPublisher, err := events.NewAMQPPublisher(conn, cfg.RabbitMQ.Exchange)
			if err != nil {
				logrus.WithError(err).Warn("Failed to open RabbitMQ channel")
				_ = conn.Close()
			} else {
				defer amqpPublisher.Close()
				publisher = amqpPublisher
			}
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	premiumStore := services.NewGormPremiumStore(db)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := router.Initialize(ctx, router.Deps{
		DB:        db,
		Config:    cfg,
		Cache:     redisCache,
		Publisher: publisher,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Premium:   premiumStore,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	sweeperOpts := []services.SweeperOption{
		services.WithSweepHour(cfg.Premium.SweepHour),
		services.WithLockTTL(cfg.Premium.SweepLockTTL),
	}
	if redisCache != nil {
		sweeperOpts = append(sweeperOpts, services.WithLocker(redisCache))
	}
	sweeper := services.NewExpirySweeper(premiumStore, publisher, m, logrus.StandardLogger(), sweeperOpts...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	stop()
	wg.Wait()

	logrus.Info("Server exited")
}
