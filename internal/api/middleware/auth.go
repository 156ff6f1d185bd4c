package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

// bearerPrefix is matched exactly: case-sensitive, one space.
const bearerPrefix = "Bearer "

const currentUserKey = "currentUser"

// ExtractBearer returns the token carried in an Authorization header value,
// or "" when the header is missing or not a bearer credential.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// Authenticate resolves the request identity from the bearer token, runs once
// per request before any handler logic, and never rejects: a missing, invalid
// or expired token simply leaves the request anonymous. Rejection is decided
// later by the per-route authorization rules.
func Authenticate(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearer(c.Request().Header.Get("Authorization"))
			if token == "" {
				return next(c)
			}

			// One signature verification per request: expiry is judged on
			// the parsed claims instead of a separate validation pass.
			claims, err := tokens.Parse(token)
			if err != nil || !claims.ExpiresAt.After(time.Now()) {
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				return next(c)
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity resolved for this request, or nil when the
// request is anonymous.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(currentUserKey).(*domain.User)
	return user
}

// SetCurrentUser attaches a pre-resolved identity to the request. Used by the
// liveness filter and by handler tests.
func SetCurrentUser(c echo.Context, u *domain.User) {
	c.Set(currentUserKey, u)
}
