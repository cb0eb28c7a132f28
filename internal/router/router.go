// Package router registers the HTTP routes of the API on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-book/internal/handler"
)

// RegisterRoutes registers routes that need no authentication and no rate
// limiting. Currently that is only the health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the /users endpoints. Register and login are
// public; limiter throttles them along with logout. Logout authenticates
// the token it revokes inside the handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/users", limiter)
	g.POST("", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
}
