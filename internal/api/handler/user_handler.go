package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// UserHandler handles the administrator-gated account directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Tier     string `json:"tier"     validate:"required,oneof=basic advanced administrator"`
}

type updateUserRequest struct {
	ID    string `json:"id"    validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Tier  string `json:"tier"  validate:"required,oneof=basic advanced administrator"`
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create registers a new account.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), key, req.Email, req.Password, domain.Tier(req.Tier))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update replaces an account's email and tier. An unknown id is a silent
// success, per the store contract.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "New account fields"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &domain.User{ID: req.ID, Email: req.Email, Tier: domain.Tier(req.Tier)}
	if err := h.service.Update(c.Request().Context(), key, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user updated"})
}

// Delete removes an account. Deleting twice is a no-op the second time.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), key, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
