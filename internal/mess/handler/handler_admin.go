package handler

import (
	"net/http"

	"kampuskart/internal/mess/model"

	"github.com/labstack/echo/v4"
)

// CreateMess handles POST /admin/messes
func (h *MessHandler) CreateMess(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.UpsertMessReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	mess, err := h.Service.CreateMess(c.Request().Context(), callerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, mess)
}

// UpdateMess handles PUT /admin/messes/:id
func (h *MessHandler) UpdateMess(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.UpsertMessReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	mess, err := h.Service.UpdateMess(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, mess)
}

// DeleteMess handles DELETE /admin/messes/:id
func (h *MessHandler) DeleteMess(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.Service.DeleteMess(c.Request().Context(), callerID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreditMeals handles POST /admin/messes/:id/subscriptions/credit
func (h *MessHandler) CreditMeals(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.CreditMealsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	sub, err := h.Service.CreditMeals(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// GetActivity handles GET /admin/messes/:id/activity
func (h *MessHandler) GetActivity(c echo.Context) error {
	var req model.GetActivityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	resp, err := h.Service.ListActivity(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
