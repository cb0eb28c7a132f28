package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	msgInvalidBody     = "invalid request body"
	msgValidation      = "validation failed"
	msgInternal        = "internal server error"
	msgContactNotFound = "contact not found"
)

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Error: msg})
}

func failValidation(c echo.Context, problems []string) error {
	return c.JSON(http.StatusBadRequest, envelope{Error: msgValidation, Data: problems})
}

type messageResp struct {
	Message string `json:"message"`
}
