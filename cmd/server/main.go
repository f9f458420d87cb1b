package main

import (
	"log"
	"net/http"

	_ "adboard/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"adboard/internal/auth"
	"adboard/internal/cache"
	"adboard/internal/config"
	"adboard/internal/db"
	"adboard/internal/handler"
	"adboard/internal/model"
	"adboard/internal/repository"
	"adboard/internal/router"
	"adboard/internal/service"
	"adboard/internal/upload"
)

// @title Adboard API
// @version 1.0
// @description Classifieds marketplace API: users post ads, moderators review them, everyone browses the approved catalog.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Subcategory{},
		&model.Ad{},
		&model.ModerationRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	adRepo := repository.NewAdRepository(gormDB)
	moderationRepo := repository.NewModerationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	policy := auth.NewPolicy()

	// External collaborators
	uploader := upload.NewHTTPUploader(cfg.UploadURL, cfg.UploadAPIKey)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	adService := service.NewAdService(adRepo, categoryRepo, uploader, policy, cacheClient)
	moderationService := service.NewModerationService(adRepo, moderationRepo, cacheClient)
	catalogService := service.NewCatalogService(adRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	adHandler := handler.NewAdHandler(adService, policy)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	moderationHandler := handler.NewModerationHandler(moderationService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		cacheClient,
		authHandler,
		adHandler,
		catalogHandler,
		categoryHandler,
		moderationHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
