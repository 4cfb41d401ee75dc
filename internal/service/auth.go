package service

import (
	"context"
	"time"

	"github.com/yshebel/customerhub/internal/auth"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/repository"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const invalidCredentialsMsg = "invalid email or password"

// AuthService represents behavior for credential verification
type AuthService interface {
	Login(context.Context, string, string, time.Time) (*auth.Token, *model.User, error)
}

type authService struct {
	tokenIssuer *auth.TokenIssuer
	userRps     repository.UserRepository
}

// NewAuthService builds AuthService
func NewAuthService(tokenIssuer *auth.TokenIssuer, userRps repository.UserRepository) AuthService {
	return &authService{tokenIssuer: tokenIssuer, userRps: userRps}
}

// Login verifies credentials and issues session token. The same error
// is returned for unknown email and wrong password, so the endpoint
// does not reveal which emails are registered
func (s *authService) Login(ctx context.Context, email string, password string, at time.Time) (*auth.Token, *model.User, error) {
	user, err := s.userRps.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		return nil, nil, apperrors.NewAuthErr(invalidCredentialsMsg)
	}

	if err := user.VerifyPassword(password); err != nil {
		return nil, nil, apperrors.NewAuthErr(invalidCredentialsMsg)
	}

	token, err := s.tokenIssuer.Sign(user, at)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}
