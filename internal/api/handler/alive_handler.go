package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/api/middleware"
)

// AliveHandler exposes a tiny introspection surface: the running version and
// a couple of identity probes useful when debugging tokens.
type AliveHandler struct {
	version string
}

func NewAliveHandler(version string) *AliveHandler {
	return &AliveHandler{version: version}
}

// Alive reports the running version.
//
// @Summary      Service version
// @Tags         alive
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/alive [get]
func (h *AliveHandler) Alive(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"version": h.version})
}

// WhoAmI echoes the resolved identity of the caller.
//
// @Summary      Who am I
// @Tags         alive
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/alive/me [get]
func (h *AliveHandler) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// AmIAdmin reports whether the caller holds the administrator role.
//
// @Summary      Am I an administrator
// @Tags         alive
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/alive/me/admin [get]
func (h *AliveHandler) AmIAdmin(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, map[string]string{
		"username": user.Username,
		"isAdmin":  strconv.FormatBool(user.IsAdministrator()),
	})
}

// Secret is an administrator-only canary endpoint for verifying role gating.
//
// @Summary      Administrator canary
// @Tags         alive
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/alive/secret [get]
func (h *AliveHandler) Secret(c echo.Context) error {
	return c.String(http.StatusOK, "This endpoint is for administrators only. If you are not this is a problem")
}
