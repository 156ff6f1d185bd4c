package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

func runGuarded(t *testing.T, mw echo.MiddlewareFunc, user *domain.User) (int, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		SetCurrentUser(c, user)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec.Code, err
}

func TestRequireAuthenticated(t *testing.T) {
	code, err := runGuarded(t, RequireAuthenticated(), liveUser("alice"))
	if err != nil || code != http.StatusOK {
		t.Fatalf("authenticated request must pass, got code=%d err=%v", code, err)
	}

	_, err = runGuarded(t, RequireAuthenticated(), nil)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %v", err)
	}
}

func TestRequireRoles(t *testing.T) {
	admin := liveUser("bob")
	admin.Role = domain.RoleAdministrator

	code, err := runGuarded(t, RequireRoles(domain.RoleAdministrator), admin)
	if err != nil || code != http.StatusOK {
		t.Fatalf("admin must pass, got code=%d err=%v", code, err)
	}

	_, err = runGuarded(t, RequireRoles(domain.RoleAdministrator), liveUser("carol"))
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for wrong role, got %v", err)
	}

	_, err = runGuarded(t, RequireRoles(domain.RoleAdministrator), nil)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %v", err)
	}
}
