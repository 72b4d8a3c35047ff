package handler

import (
	"errors"
	"net/http"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/service"

	"github.com/labstack/echo/v4"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, model.ErrorResponse) {
	var code string
	var msg string
	var status int

	var detail *model.ErrorDetail
	switch {
	case errors.As(err, &detail):
		status = http.StatusBadRequest
		code = detail.Code
		msg = detail.Message
	case errors.Is(err, service.ErrInvalidFilter):
		status = http.StatusBadRequest
		code = "invalid_filter"
		msg = err.Error()
	case errors.Is(err, service.ErrInvalidRating):
		status = http.StatusBadRequest
		code = "invalid_rating"
		msg = err.Error()
	case errors.Is(err, service.ErrInvalidMealType):
		status = http.StatusBadRequest
		code = "invalid_meal_type"
		msg = err.Error()
	case errors.Is(err, service.ErrInvalidMess), errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
		msg = "Unauthorized"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = "Mess not found"
	case errors.Is(err, service.ErrNoActiveSubscription):
		status = http.StatusConflict
		code = "no_active_subscription"
		msg = "No active subscription for this meal"
	case errors.Is(err, service.ErrInsufficientMeals):
		status = http.StatusConflict
		code = "insufficient_meals"
		msg = "No meals left on this subscription"
	case errors.Is(err, service.ErrConcurrentUpdate):
		status = http.StatusConflict
		code = "conflict"
		msg = "The mess was modified concurrently, retry the request"
	case errors.Is(err, service.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
		code = "persistence_unavailable"
		msg = "Storage is temporarily unavailable"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
		msg = "Internal server error"
	}

	if code == "" {
		code = "bad_request"
	}
	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

// writeError renders err and tags it with the request id.
func writeError(c echo.Context, err error) error {
	status, body := httpError(err)
	body.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return writeError(c, &model.ErrorDetail{Code: "bad_request", Message: msg})
}
