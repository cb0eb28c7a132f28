package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-book/internal/service"
)

// Messages written for rejected requests. Every token failure shares one
// message so a client cannot tell expired, revoked and forged tokens apart.
const (
	MsgTokenMissing = "token not provided"
	MsgTokenInvalid = "token expired or invalid"
	msgInternal     = "internal server error"
)

// Validator resolves a raw bearer token to the identity it was issued for.
type Validator interface {
	Validate(ctx context.Context, raw string) (service.Identity, error)
}

// IdentityHandler is a handler that runs only for authenticated requests
// and receives the caller's identity as an argument.
type IdentityHandler func(c echo.Context, id service.Identity) error

// RequireIdentity validates the bearer token on every request, including
// the revocation check, before calling next with the resolved identity.
// Validation runs under timeout, the same bound handlers put on their
// store calls.
func RequireIdentity(v Validator, timeout time.Duration, log *slog.Logger, next IdentityHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := BearerToken(c)
		if !ok {
			return Unauthorized(c, MsgTokenMissing)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		id, err := v.Validate(ctx, raw)
		cancel()
		switch {
		case err == nil:
			return next(c, id)
		case service.IsUnauthenticated(err):
			return Unauthorized(c, MsgTokenInvalid)
		default:
			log.ErrorContext(c.Request().Context(), "validate token", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": msgInternal})
		}
	}
}

// Unauthorized writes the 401 envelope.
func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": msg})
}

