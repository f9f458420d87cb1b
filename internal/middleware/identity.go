package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"adboard/internal/auth"
	"adboard/internal/errors"
	"adboard/internal/model"
)

const callerContextKey = "caller"

// CallerFromContext returns the authenticated caller set by ExtractCaller
// or OptionalAuth. The zero Caller means anonymous.
func CallerFromContext(c echo.Context) auth.Caller {
	if caller, ok := c.Get(callerContextKey).(auth.Caller); ok {
		return caller
	}
	return auth.Caller{}
}

func setCaller(c echo.Context, claims *auth.Claims) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}
	c.Set(callerContextKey, auth.Caller{ID: id, Role: claims.Role})
}

// ExtractCaller turns the token validated by the echo-jwt middleware into
// an auth.Caller in the request context. It must run after echo-jwt on a
// secured group.
func ExtractCaller() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHORIZED",
				})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token claims",
					Code:  "UNAUTHORIZED",
				})
			}
			setCaller(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth resolves the caller when a valid Bearer token is present and
// lets the request through anonymously otherwise. Used on public routes
// whose responses vary by identity, like the ad detail visibility rule.
func OptionalAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				raw := strings.TrimPrefix(header, "Bearer ")
				if claims, err := jwtService.ValidateToken(raw); err == nil {
					setCaller(c, claims)
				}
			}
			return next(c)
		}
	}
}

// RequireRole aborts with 401 unless the caller holds one of the given
// roles. Must run after ExtractCaller. Wrong-role callers get 401 rather
// than 403, matching the rest of the auth surface.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFromContext(c)
			if caller.Anonymous() || !allowed[caller.Role] {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "insufficient role",
					Code:  "UNAUTHORIZED",
				})
			}
			return next(c)
		}
	}
}
