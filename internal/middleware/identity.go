package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// BearerToken returns the raw token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. It reports false when
// the header is missing, uses another scheme or carries an empty token.
func BearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) < len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(h[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}
