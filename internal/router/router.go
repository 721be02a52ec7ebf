package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/show-catalog/internal/handler"
	"github.com/iliyamo/show-catalog/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	DB            *sql.DB
	Auth          *handler.AuthHandler
	Shows         *handler.ShowHandler
	Tokens        middleware.TokenVerifier
	ProtectWrites bool
	UploadDir     string
	UploadPrefix  string
}

// New builds an Echo instance with the standard middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.Tokens)
	RegisterShows(e, d.Shows, middleware.Optional(d.ProtectWrites, middleware.JWTAuth(d.Tokens)))
	RegisterStatic(e, d.UploadDir, d.UploadPrefix)
	return e
}

// RegisterRoutes registers health endpoints that do not require
// authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers the login gate under /api/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenVerifier) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(tokens))
}

// RegisterShows registers the catalog under /api/shows.  writeGuard wraps
// the mutating routes; pass a no-op middleware to leave them open.
func RegisterShows(e *echo.Echo, h *handler.ShowHandler, writeGuard echo.MiddlewareFunc) {
	g := e.Group("/api/shows")
	g.GET("", h.ListShows)
	g.GET("/category/:category", h.ListShowsByCategory)
	g.GET("/:id", h.GetShow)
	g.POST("", h.CreateShow, writeGuard)
	g.PUT("/:id", h.UpdateShow, writeGuard)
	g.DELETE("/:id", h.DeleteShow, writeGuard)
}

// RegisterStatic serves uploaded files read-only, both under their recorded
// prefix and at the root.
func RegisterStatic(e *echo.Echo, dir, prefix string) {
	if dir == "" {
		return
	}
	e.Static("/"+prefix, dir)
	e.Static("/", dir)
}
