package handler

import (
	"net/http"

	"kampuskart/internal/mess/model"

	"github.com/labstack/echo/v4"
)

// SubmitRating handles POST /messes/:id/ratings
func (h *MessHandler) SubmitRating(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.SubmitRatingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	summary, err := h.Service.SubmitRating(c.Request().Context(), c.Param("id"), callerID, req.Input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
