package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/micellaneous/accounts-api/internal/api/metrics"
	"github.com/micellaneous/accounts-api/internal/api/middleware"
	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
	"github.com/micellaneous/accounts-api/internal/core/service"
)

// UserHandler serves the account CRUD and self-service endpoints.
type UserHandler struct {
	users ports.UserService
	audit ports.Auditor
}

// NewUserHandler wires the user endpoints. audit is optional; nil disables
// audit recording.
func NewUserHandler(users ports.UserService, audit ports.Auditor) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

type userRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=USER ADMINISTRATOR"`
	// Pointer so "active" left out of the payload keeps the server-side
	// default instead of silently disabling the account.
	Active *bool `json:"active"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (r userRequest) toInput() ports.UserInput {
	return ports.UserInput{
		Username: r.Username,
		Password: r.Password,
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Role:     r.Role,
		Active:   r.Active,
	}
}

func pathInt(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

// List returns one page of accounts.
//
// @Summary      List users (paged)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  path      int  true  "Page index (0-based)"
// @Param        size  path      int  true  "Page size"
// @Success      200   {object}  ports.Page
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/users/page/{page}/size/{size} [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pathInt(c, "page")
	if err != nil {
		return err
	}
	size, err := pathInt(c, "size")
	if err != nil {
		return err
	}

	result, err := h.users.List(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns one account. Self-or-admin: regular users may only fetch their
// own record.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}
	if err := service.EnforceUserInfoAccess(middleware.CurrentUser(c), id); err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create registers a new account.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "Profile"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	h.record(c, domain.AuditUserCreated, user.ID, "username="+user.Username)
	return c.JSON(http.StatusCreated, user)
}

// Update replaces the full profile of an account. The password field is
// applied unconditionally, so the stored hash is regenerated on every update.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "User id"
// @Param        body  body      userRequest  true  "Full replacement profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Modify(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}

	h.record(c, domain.AuditUserModified, user.ID, "")
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.record(c, domain.AuditUserDeleted, id, "")
	return c.NoContent(http.StatusNoContent)
}

// SetActive enables or disables an account. Disabling also invalidates the
// account's outstanding tokens via the per-request liveness re-check.
//
// @Summary      Enable or disable a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int   true  "User id"
// @Param        active  path      bool  true  "Target active flag"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/users/{id}/active/{active} [patch]
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}
	active, err := strconv.ParseBool(c.Param("active"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid active flag")
	}

	user, err := h.users.SetActive(c.Request().Context(), id, active)
	if err != nil {
		return err
	}

	h.record(c, domain.AuditUserActiveSet, id, "active="+strconv.FormatBool(active))
	return c.JSON(http.StatusOK, user)
}

// Me returns the authenticated account.
//
// @Summary      Get the logged-in user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// ChangeMyPassword replaces the authenticated account's password after
// verifying the old one.
//
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/users/me/password [patch]
func (h *UserHandler) ChangeMyPassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	current := middleware.CurrentUser(c)
	user, err := h.users.ChangePassword(c.Request().Context(), current, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}

	h.record(c, domain.AuditPasswordChanged, user.ID, "")
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) record(c echo.Context, action string, targetID int, detail string) {
	if h.audit == nil {
		return
	}
	actor := ""
	if u := middleware.CurrentUser(c); u != nil {
		actor = u.Username
	}
	h.audit.Enqueue(domain.AuditEvent{
		Actor:      actor,
		Action:     action,
		TargetID:   targetID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
}
