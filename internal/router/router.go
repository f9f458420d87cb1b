package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"adboard/internal/auth"
	"adboard/internal/cache"
	"adboard/internal/config"
	"adboard/internal/handler"
	"adboard/internal/middleware"
	"adboard/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	cacheClient *cache.Client,
	authHandler *handler.AuthHandler,
	adHandler *handler.AdHandler,
	catalogHandler *handler.CatalogHandler,
	categoryHandler *handler.CategoryHandler,
	moderationHandler *handler.ModerationHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		status := map[string]string{"status": "ok"}
		if !cacheClient.Ping(c.Request().Context()) {
			// Redis is optional; report but stay healthy.
			status["cache"] = "unavailable"
		}
		return c.JSON(http.StatusOK, status)
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/ads", catalogHandler.Search)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/subcategories", catalogHandler.ListSubcategories)

	// Ad detail is public but identity-sensitive: non-approved ads are
	// visible only to their owner or a moderator.
	api.GET("/ads/:id", adHandler.Get, middleware.OptionalAuth(jwtService))

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), middleware.ExtractCaller())

	secured.POST("/ads", adHandler.Create)
	secured.PUT("/ads/:id", adHandler.Update)
	secured.GET("/my/ads", adHandler.ListMine)

	// Moderator-only routes
	moderator := secured.Group("", middleware.RequireRole(model.RoleModerator))

	moderator.GET("/moderation/pending", moderationHandler.ListPending)
	moderator.POST("/moderation/approve", moderationHandler.Approve)
	moderator.POST("/moderation/reject", moderationHandler.Reject)
	moderator.GET("/moderation/ads/:id/history", moderationHandler.History)

	moderator.POST("/categories", categoryHandler.CreateCategory)
	moderator.PUT("/categories/:id", categoryHandler.UpdateCategory)
	moderator.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	moderator.POST("/subcategories", categoryHandler.CreateSubcategory)
	moderator.PUT("/subcategories/:id", categoryHandler.UpdateSubcategory)
	moderator.DELETE("/subcategories/:id", categoryHandler.DeleteSubcategory)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
