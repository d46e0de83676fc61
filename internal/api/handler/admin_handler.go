package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// AdminHandler serves the user-management surface. Every route sits behind
// RequireAdmin; the structural rules themselves live in the service.
type AdminHandler struct {
	admin ports.UserAdminService
}

func NewAdminHandler(admin ports.UserAdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type inviteAdminRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
}

type inviteAdminResponse struct {
	User *domain.User `json:"user"`
	// TempPassword is shown exactly once; it cannot be re-derived.
	TempPassword string `json:"temp_password"`
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.admin.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// InviteAdmin creates an admin account with a one-time temporary password.
//
// @Summary      Invite an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      inviteAdminRequest  true  "New admin identity"
// @Success      201   {object}  inviteAdminResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/admin/users/invite [post]
func (h *AdminHandler) InviteAdmin(c echo.Context) error {
	var req inviteAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	user, password, err := h.admin.InviteAdmin(c.Request().Context(), actor.ID, req.Username, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inviteAdminResponse{User: user, TempPassword: password})
}

// Promote grants admin status; idempotent.
//
// @Summary      Promote a user
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/users/{id}/promote [post]
func (h *AdminHandler) Promote(c echo.Context) error {
	return h.mutate(c, h.admin.Promote, "user promoted")
}

// Demote clears admin status, guarded by the last-admin invariant.
//
// @Summary      Demote a user
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/admin/users/{id}/demote [post]
func (h *AdminHandler) Demote(c echo.Context) error {
	return h.mutate(c, h.admin.Demote, "user demoted")
}

// ToggleActive flips the account's active flag.
//
// @Summary      Toggle a user's active flag
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/admin/users/{id}/toggle-active [post]
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	return h.mutate(c, h.admin.ToggleActive, "user active flag toggled")
}

// DeleteUser removes an account permanently.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	return h.mutate(c, h.admin.DeleteUser, "user deleted")
}

// mutate shares the target-ID parsing and response shape of the four
// structural mutations.
func (h *AdminHandler) mutate(c echo.Context, op func(ctx context.Context, actorID, targetID int64) error, message string) error {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := op(c.Request().Context(), actor.ID, targetID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": message})
}
