package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequireLiveAccount re-validates the resolved identity against the account
// validity policy. A cryptographically valid token is not enough: if the
// account has been disabled or has left its validity window since the token
// was issued, the identity is discarded and the request proceeds anonymous.
// This is what invalidates a disabled user's outstanding tokens without a
// revocation list.
func RequireLiveAccount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user := CurrentUser(c); user != nil && !user.IsValidAt(time.Now()) {
				SetCurrentUser(c, nil)
			}
			return next(c)
		}
	}
}
