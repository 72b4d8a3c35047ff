package handler

import (
	"net/http"

	"kampuskart/internal/mess/model"

	"github.com/labstack/echo/v4"
)

// ListMySubscriptions handles GET /messes/:id/subscriptions/me
func (h *MessHandler) ListMySubscriptions(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	subs, err := h.Service.ListMySubscriptions(c.Request().Context(), c.Param("id"), callerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

// PutSubscription handles PUT /messes/:id/subscriptions
func (h *MessHandler) PutSubscription(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.SetSubscriptionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	sub, err := h.Service.SetSubscription(c.Request().Context(), c.Param("id"), callerID, req.MealType, *req.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// RedeemMeal handles POST /messes/:id/subscriptions/redeem
func (h *MessHandler) RedeemMeal(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req model.RedeemMealReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	sub, err := h.Service.RedeemMeal(c.Request().Context(), c.Param("id"), callerID, req.MealType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}
