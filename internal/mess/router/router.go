package router

import (
	"kampuskart/internal/mess/handler"
	"kampuskart/internal/mess/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Options carries the middleware that depends on optional infrastructure.
// Nil entries are skipped.
type Options struct {
	JWTSecret   string
	SearchCache echo.MiddlewareFunc
	RateLimit   echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h *handler.MessHandler, opts Options) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "x-user-id", "x-user-role"},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)
	v1.Use(handler.IdentityMiddleware(opts.JWTSecret))
	if opts.RateLimit != nil {
		v1.Use(opts.RateLimit)
	}

	// Catalog
	search := []echo.MiddlewareFunc{}
	if opts.SearchCache != nil {
		search = append(search, opts.SearchCache)
	}
	v1.GET("/messes", h.SearchMesses, search...)
	v1.GET("/messes/:id", h.GetMess)
	v1.GET("/messes/:id/open", h.CheckOpen)

	// Caller scoped
	v1.POST("/messes/:id/ratings", h.SubmitRating)
	v1.GET("/messes/:id/subscriptions/me", h.ListMySubscriptions)
	v1.PUT("/messes/:id/subscriptions", h.PutSubscription)
	v1.POST("/messes/:id/subscriptions/redeem", h.RedeemMeal)

	// Admin dashboard
	admin := v1.Group("/admin", handler.RequireRole(model.RoleAdmin))
	admin.POST("/messes", h.CreateMess)
	admin.PUT("/messes/:id", h.UpdateMess)
	admin.DELETE("/messes/:id", h.DeleteMess)
	admin.POST("/messes/:id/subscriptions/credit", h.CreditMeals)
	admin.GET("/messes/:id/activity", h.GetActivity)
}
