package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-book/internal/middleware"
	"github.com/iliyamo/contact-book/internal/model"
	"github.com/iliyamo/contact-book/internal/service"
)

// AuthService is what the user endpoints need from the session core.
type AuthService interface {
	Register(ctx context.Context, username, secret string) (model.User, error)
	Login(ctx context.Context, username, secret string) (service.Session, error)
	Logout(ctx context.Context, raw string) error
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	svc     AuthService
	timeout time.Duration
	log     *slog.Logger
}

func NewAuthHandler(svc AuthService, timeout time.Duration, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, timeout: timeout, log: log}
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type registerResp struct {
	Message string   `json:"message"`
	User    userPart `json:"user"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userPart  `json:"user"`
}

// Register handles POST /users.
func (h *AuthHandler) Register(c echo.Context) error {
	in, problems, err := bindFields(c, usernameField, passwordField)
	if err != nil {
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}
	if len(problems) > 0 {
		return failValidation(c, problems)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.svc.Register(ctx, in["username"], in["password"])
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		return fail(c, http.StatusConflict, "username already taken")
	case err != nil:
		return h.internal(c, "register", err)
	}
	return ok(c, http.StatusCreated, registerResp{
		Message: "user created",
		User:    userPart{ID: u.ID, Username: u.Username},
	})
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(c echo.Context) error {
	in, problems, err := bindFields(c, usernameField, passwordField)
	if err != nil {
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}
	if len(problems) > 0 {
		return failValidation(c, problems)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	s, err := h.svc.Login(ctx, in["username"], in["password"])
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return h.internal(c, "login", err)
	}
	return ok(c, http.StatusOK, loginResp{
		Token:     s.Token.Raw,
		ExpiresAt: s.Token.ExpiresAt,
		User:      userPart{ID: s.User.ID, Username: s.User.Username},
	})
}

// Logout handles POST /users/logout. The bearer token itself is revoked;
// other tokens of the same user are untouched.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, found := middleware.BearerToken(c)
	if !found {
		return middleware.Unauthorized(c, middleware.MsgTokenMissing)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err := h.svc.Logout(ctx, raw)
	switch {
	case service.IsUnauthenticated(err):
		return middleware.Unauthorized(c, middleware.MsgTokenInvalid)
	case err != nil:
		return h.internal(c, "logout", err)
	}
	return ok(c, http.StatusOK, messageResp{Message: "logged out, token revoked"})
}

func (h *AuthHandler) internal(c echo.Context, op string, err error) error {
	h.log.ErrorContext(c.Request().Context(), op+" failed", "err", err)
	return fail(c, http.StatusInternalServerError, msgInternal)
}
