package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/service"
)

type newUser struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=4,max=72"`
	Username string     `json:"username"`
	Role     model.Role `json:"role" validate:"required,oneof=admin user"`
}

type patchUser struct {
	Email    *string     `json:"email" validate:"omitempty,email"`
	Password *string     `json:"password" validate:"omitempty,min=4,max=72"`
	Username *string     `json:"username"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=admin user"`
	Active   *bool       `json:"active"`
}

// UserHTTPHandler is http handler for user endpoint
type UserHTTPHandler struct {
	userSvc service.UserService
}

// NewUserHTTPHandler builds new UserHTTPHandler
func NewUserHTTPHandler(userSvc service.UserService) *UserHTTPHandler {
	return &UserHTTPHandler{userSvc: userSvc}
}

// GetAll returns users, optionally narrowed by free-text query
func (h *UserHTTPHandler) GetAll(c echo.Context) error {
	filter := listFilter(c)

	users, err := h.userSvc.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns single user by id
func (h *UserHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	user, err := h.userSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Post creates new user
func (h *UserHTTPHandler) Post(c echo.Context) error {
	var nu newUser
	if err := c.Bind(&nu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nu); err != nil {
		return err
	}

	user, err := h.userSvc.Create(c.Request().Context(), &model.User{
		Email:    nu.Email,
		Username: nu.Username,
		Role:     nu.Role,
	}, nu.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Put partially updates user, absent fields stay unchanged
func (h *UserHTTPHandler) Put(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	var pu patchUser
	if err := c.Bind(&pu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pu); err != nil {
		return err
	}

	user, err := h.userSvc.Update(c.Request().Context(), id, model.UserPatch{
		Email:    pu.Email,
		Password: pu.Password,
		Username: pu.Username,
		Role:     pu.Role,
		Active:   pu.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteByID soft-deletes user
func (h *UserHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.userSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
