package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key under which JWTAuth stores the caller's id.
const UserIDKey = "user_id"

// TokenVerifier resolves a bearer token to the user it was issued to.
// *service.Authenticator implements it.
type TokenVerifier interface {
	Verify(raw string) (int64, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// issued at login and stores its subject in the context under UserIDKey.
func JWTAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			uid, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// Optional applies mw only when enabled is true.
func Optional(enabled bool, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if enabled {
		return mw
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}
