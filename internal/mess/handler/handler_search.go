package handler

import (
	"net/http"
	"strings"
	"time"

	"kampuskart/internal/mess/hours"
	"kampuskart/internal/mess/model"

	"github.com/labstack/echo/v4"
)

// SearchMesses handles GET /messes
func (h *MessHandler) SearchMesses(c echo.Context) error {
	var req model.SearchMessReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, &model.ErrorDetail{Code: "invalid_filter", Message: "Invalid query parameters"})
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}
	filter, err := req.Filter()
	if err != nil {
		return writeError(c, err)
	}

	results, err := h.Service.Search(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

// GetMess handles GET /messes/:id
func (h *MessHandler) GetMess(c echo.Context) error {
	mess, err := h.Service.GetMess(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, mess)
}

// CheckOpen handles GET /messes/:id/open?at=
func (h *MessHandler) CheckOpen(c echo.Context) error {
	at, err := h.parseAt(c.QueryParam("at"))
	if err != nil {
		return badRequest(c, "at must be RFC3339 or HH:MM")
	}

	status, err := h.Service.CheckOpen(c.Request().Context(), c.Param("id"), at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// parseAt accepts a full RFC3339 instant or a wall-clock time, which is
// placed on today's date in the campus location. Empty means now.
func (h *MessHandler) parseAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	minutes, err := hours.ParseClock(raw)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now().In(h.Location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.Location).Add(time.Duration(minutes) * time.Minute), nil
}
