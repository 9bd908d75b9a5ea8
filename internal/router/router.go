// internal/router/router.go
package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/motohanem/moto-backend/internal/cache"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/database"
	"github.com/motohanem/moto-backend/internal/events"
	"github.com/motohanem/moto-backend/internal/handlers"
	"github.com/motohanem/moto-backend/internal/metrics"
	"github.com/motohanem/moto-backend/internal/middleware"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

const version = "1.0.0"

// Deps are the shared clients the router wires into services. Cache may be
// nil when redis is disabled.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Cache     *cache.Cache
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Premium   services.PremiumStore
}

// Initialize builds the HTTP engine. ctx bounds the rate limiter cleanup loops.
func Initialize(ctx context.Context, deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	db := deps.DB

	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		return nil, err
	}
	var translationCache services.TranslationCache
	if deps.Cache != nil {
		translationCache = deps.Cache
	}
	premiumStore := deps.Premium
	if premiumStore == nil {
		premiumStore = services.NewGormPremiumStore(db)
	}

	modelService := services.NewModelService(db, deps.Metrics)
	brandService := services.NewBrandService(db)
	catalogService := services.NewCatalogService(db)
	commentService := services.NewCommentService(db)
	favoriteService := services.NewFavoriteService(db, modelService)
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	premiumService := services.NewPremiumService(premiumStore, deps.Publisher, deps.Metrics, logrus.WithField("component", "premium"), cfg.Premium)
	translationService := services.NewTranslationService(db, translationCache, logrus.WithField("component", "translations"))
	updateService := services.NewUpdateService(db)

	modelHandler := handlers.NewModelHandler(modelService, storageService)
	brandHandler := handlers.NewBrandHandler(brandService, storageService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	commentHandler := handlers.NewCommentHandler(commentService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	userHandler := handlers.NewUserHandler(authService, userService)
	premiumHandler := handlers.NewPremiumHandler(premiumService, cfg.RevenueCat)
	translationHandler := handlers.NewTranslationHandler(translationService)
	updateHandler := handlers.NewUpdateHandler(updateService)

	checks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if deps.Cache != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Cache.Db.Ping(ctx).Err() }
	}
	healthHandler := handlers.NewHealthHandler(version, checks)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.NewGeneralLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	loginLimiter := middleware.NewLoginLimiter(cfg.RateLimit.LoginPerHour)
	uploadLimiter := middleware.NewUploadLimiter()
	for _, l := range []*middleware.RateLimiter{generalLimiter, loginLimiter, uploadLimiter} {
		go l.Cleanup(ctx)
	}

	auth := middleware.AuthRequired()
	admin := []gin.HandlerFunc{auth, middleware.AdminRequired()}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Metrics))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.I18nMiddleware())

	r.GET("/health", healthHandler.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.AWS.AccessKeyID == "" {
		r.Static(services.LocalUploadRoute, cfg.AWS.LocalUploadDir)
	}

	// The billing provider is not rate limited.
	r.POST("/revenuecat", premiumHandler.Webhook)

	api := r.Group("")
	api.Use(generalLimiter.Middleware())
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", loginLimiter.Middleware(), userHandler.Login)
			users.GET("", append(admin, userHandler.ListUsers)...)
			users.GET("/subscription-prices", premiumHandler.Prices)
			users.GET("/:id", auth, userHandler.GetUser)
			users.POST("/:id/upgrade", auth, premiumHandler.Upgrade)
			users.GET("/:id/premium", auth, premiumHandler.Status)
		}

		modelsGroup := api.Group("/models")
		{
			modelsGroup.GET("", modelHandler.ListModels)
			modelsGroup.GET("/search", modelHandler.Search)
			modelsGroup.GET("/top/favorited", modelHandler.TopFavorited)
			modelsGroup.GET("/top/commented", modelHandler.TopCommented)
			modelsGroup.GET("/top/rated", modelHandler.TopRated)
			modelsGroup.GET("/brand/:brandId", modelHandler.ListByBrand)
			modelsGroup.GET("/type/:type", modelHandler.ListByType)
			modelsGroup.GET("/origin/:origin", modelHandler.ListByOrigin)
			modelsGroup.GET("/:id", modelHandler.GetModel)
			modelsGroup.POST("", append(admin, modelHandler.CreateModel)...)
			modelsGroup.POST("/:id/image", append(admin, uploadLimiter.Middleware(), modelHandler.UploadImage)...)
		}

		brands := api.Group("/brands")
		{
			brands.GET("", brandHandler.ListBrands)
			brands.GET("/search", brandHandler.SearchBrands)
			brands.GET("/type/:vehicleTypeId", brandHandler.ListByVehicleType)
			brands.GET("/:id", brandHandler.GetBrand)
			brands.POST("", append(admin, brandHandler.CreateBrand)...)
			brands.POST("/:id/logo", append(admin, uploadLimiter.Middleware(), brandHandler.UploadLogo)...)
		}

		api.GET("/vehicles", catalogHandler.ListVehicleTypes)
		api.POST("/vehicles", append(admin, catalogHandler.CreateVehicleType)...)
		api.GET("/countries", catalogHandler.ListCountries)
		api.POST("/countries", append(admin, catalogHandler.CreateCountry)...)
		api.GET("/types-of-motorcycle", catalogHandler.ListMotorcycleTypes)
		api.POST("/types-of-motorcycle", append(admin, catalogHandler.CreateMotorcycleType)...)

		comments := api.Group("/comments")
		{
			comments.GET("", commentHandler.ListComments)
			comments.GET("/model/:modelId", commentHandler.ListByModel)
			comments.POST("", auth, commentHandler.CreateComment)
			comments.PATCH("/:id", auth, commentHandler.UpdateComment)
			comments.DELETE("/:id", auth, commentHandler.DeleteComment)
		}

		favorites := api.Group("/favorites")
		{
			favorites.GET("", append(admin, favoriteHandler.ListFavorites)...)
			favorites.GET("/me", auth, favoriteHandler.ListMine)
			favorites.GET("/user/:userId", favoriteHandler.ListByUser)
			favorites.POST("", auth, favoriteHandler.CreateFavorite)
			favorites.DELETE("/:id", auth, favoriteHandler.DeleteFavorite)
		}

		api.GET("/translations", translationHandler.GetTranslations)
		api.POST("/translations", append(admin, translationHandler.CreateTranslation)...)

		update := api.Group("/api/v1/update")
		{
			update.GET("/check", updateHandler.Check)
			update.POST("", append(admin, updateHandler.Create)...)
		}
	}

	return r, nil
}
