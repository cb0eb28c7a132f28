package router

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-book/internal/handler"
	"github.com/iliyamo/contact-book/internal/middleware"
)

// RegisterContacts registers the owner-scoped contact endpoints. Each route
// validates the bearer token, revocation included, before the handler runs
// with the caller's identity.
func RegisterContacts(e *echo.Echo, h *handler.ContactHandler, v middleware.Validator, timeout time.Duration, log *slog.Logger) {
	auth := func(next middleware.IdentityHandler) echo.HandlerFunc {
		return middleware.RequireIdentity(v, timeout, log, next)
	}
	g := e.Group("/contacts")
	g.GET("", auth(h.List))
	g.POST("", auth(h.Create))
	g.PUT("/:id", auth(h.Update))
	g.DELETE("/:id", auth(h.Delete))
}
