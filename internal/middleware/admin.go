package middleware

import (
	"net/http"

	"landledger/internal/common"
	"landledger/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireAdmin gates a route on the administrator role. The split is
// exact: no identity in context is 401, an authenticated non-admin is
// 403. The guard reads identity only; it never mutates user state.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := common.GetCurrentUser(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if user.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Administrator access required")
			}

			return next(c)
		}
	}
}
