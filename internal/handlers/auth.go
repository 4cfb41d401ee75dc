package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yshebel/customerhub/internal/service"
)

type login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type session struct {
	AccessToken string        `json:"accessToken"`
	ExpiresAt   int64         `json:"expiresAt"`
	User        *userResponse `json:"user"`
}

// AuthHTTPHandler is http handler for auth endpoint
type AuthHTTPHandler struct {
	authSvc service.AuthService
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(authSvc service.AuthService) *AuthHTTPHandler {
	return &AuthHTTPHandler{authSvc: authSvc}
}

// Login verifies credentials and starts session
func (h *AuthHTTPHandler) Login(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	token, user, err := h.authSvc.Login(c.Request().Context(), lgn.Email, lgn.Password, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &session{
		AccessToken: token.Signed,
		ExpiresAt:   token.ExpiresAt,
		User:        toUserResponse(user),
	})
}
