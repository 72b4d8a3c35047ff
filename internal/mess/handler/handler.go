package handler

import (
	"net/http"
	"time"

	"kampuskart/internal/mess/service"

	"github.com/labstack/echo/v4"
)

type MessHandler struct {
	Service  service.MessCatalog
	Location *time.Location
}

func NewMessHandler(s service.MessCatalog, loc *time.Location) *MessHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MessHandler{Service: s, Location: loc}
}

// extractCallerID returns the identity resolved by IdentityMiddleware.
func (h *MessHandler) extractCallerID(c echo.Context) (string, error) {
	callerID, _ := c.Get(ctxUserID).(string)
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
