package handler

import (
	"net/http"
	"strings"

	"kampuskart/internal/mess/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// IdentityMiddleware resolves the caller. With a secret configured only a
// valid HS256 bearer token is trusted and its sub and role claims are used.
// Without a secret (local mode) the x-user-id and x-user-role headers are
// taken as-is. Requests without identity pass through anonymously; handlers
// that need a caller reject them.
func IdentityMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				c.Set(ctxUserID, strings.TrimSpace(c.Request().Header.Get("x-user-id")))
				c.Set(ctxRole, strings.ToLower(strings.TrimSpace(c.Request().Header.Get("x-user-role"))))
				return next(c)
			}

			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}

			raw := strings.TrimPrefix(auth, "Bearer ")
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				sub, _ = claims["user_id"].(string)
			}
			role, _ := claims["role"].(string)

			c.Set(ctxUserID, sub)
			c.Set(ctxRole, strings.ToLower(role))
			return next(c)
		}
	}
}

// RequireRole rejects callers whose resolved role is not in roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, _ := c.Get(ctxUserID).(string); id == "" {
				return unauthorized(c, "authentication required")
			}
			role, _ := c.Get(ctxRole).(string)
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, model.ErrorResponse{
					Error: model.ErrorDetail{
						Code:      "forbidden",
						Message:   "Permission denied",
						RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
					},
				})
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:      "unauthorized",
			Message:   msg,
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		},
	})
}

// CallerID exposes the resolved identity to other middleware (rate limit keys).
func CallerID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}
