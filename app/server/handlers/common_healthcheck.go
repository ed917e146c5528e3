package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck answers 503 while the database is unreachable.
func (a *App) HealthCheck(c echo.Context) error {
	if err := a.ledger.Ping(c.Request().Context()); err != nil {
		a.l.Warn("health check failed", zap.Error(err))
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
