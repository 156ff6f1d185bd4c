package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRoles enforces role-based access: the request must carry a resolved,
// live identity whose role is in the allowed set. Anonymous requests get 401,
// authenticated ones with the wrong role get the access-denied mapping (403).
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[user.Role]; !ok {
				return &domain.AccessDeniedError{Reason: "insufficient privileges"}
			}
			return next(c)
		}
	}
}
