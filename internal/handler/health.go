package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler reports whether the stores the API depends on answer.
type HealthHandler struct {
	checks  []healthCheck
	timeout time.Duration
}

func NewHealthHandler(db DBPinger, rdb redis.Cmdable, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		timeout: timeout,
		checks: []healthCheck{
			{name: "mysql", ping: db.PingContext},
			{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	}
}

// Health handles GET /healthz: 200 when every dependency answers, 503 with
// the names of the failing ones otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var down []string
	for _, chk := range h.checks {
		if err := chk.ping(ctx); err != nil {
			down = append(down, chk.name)
		}
	}
	if len(down) > 0 {
		return c.JSON(http.StatusServiceUnavailable, envelope{Error: "unavailable", Data: down})
	}
	return ok(c, http.StatusOK, echo.Map{"status": "ok"})
}
