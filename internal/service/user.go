package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yshebel/customerhub/internal/mirror"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/repository"
	"github.com/yshebel/customerhub/pkg/db/transactor"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const usersMirrorCollection = "users"

// UserService represents behavior for user business operations
type UserService interface {
	FindAll(context.Context, repository.ListFilter) ([]*model.User, error)
	FindByID(context.Context, string) (*model.User, error)
	Create(context.Context, *model.User, string) (*model.User, error)
	Update(context.Context, string, model.UserPatch) (*model.User, error)
	DeleteByID(context.Context, string) error
	EnsureAdmin(context.Context, string, string, string) error
}

type userService struct {
	trx     transactor.Transactor
	userRps repository.UserRepository
	mirror  mirror.Mirror
}

// NewUserService builds UserService
func NewUserService(trx transactor.Transactor, userRps repository.UserRepository, m mirror.Mirror) UserService {
	return &userService{trx: trx, userRps: userRps, mirror: m}
}

func (s *userService) FindAll(ctx context.Context, filter repository.ListFilter) ([]*model.User, error) {
	users, err := s.userRps.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u == nil {
		return nil, apperrors.NewNotFoundErr("user", id)
	}
	return u, nil
}

// Create persists new user, password comes in plaintext and is stored
// as salted hash only
func (s *userService) Create(ctx context.Context, u *model.User, password string) (*model.User, error) {
	if !u.Role.Valid() {
		return nil, apperrors.NewValidationErr("role", fmt.Sprintf("role %q is not allowed", u.Role))
	}

	hash, err := model.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.verifyEmailIsVacant(ctx, u.Email, ""); err != nil {
			return err
		}
		return s.userRps.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Store(usersMirrorCollection, u.ID, u)
	return u, nil
}

func (s *userService) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, apperrors.NewValidationErr("role", fmt.Sprintf("role %q is not allowed", *patch.Role))
	}

	var merged model.User
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.userRps.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if existing == nil {
			return apperrors.NewNotFoundErr("user", id)
		}

		if patch.Email != nil && *patch.Email != existing.Email {
			if err := s.verifyEmailIsVacant(ctx, *patch.Email, id); err != nil {
				return err
			}
		}

		merged = existing.Merge(patch)
		if patch.Password != nil && *patch.Password != "" {
			hash, err := model.GeneratePasswordHash(*patch.Password)
			if err != nil {
				return err
			}
			merged.PasswordHash = hash
		}
		merged.UpdatedAt = time.Now().UTC()

		return s.userRps.Update(ctx, &merged)
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Store(usersMirrorCollection, merged.ID, &merged)
	return &merged, nil
}

func (s *userService) DeleteByID(ctx context.Context, id string) error {
	existing, err := s.userRps.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return apperrors.NewNotFoundErr("user", id)
	}

	if existing.Active {
		existing.Active = false
		existing.UpdatedAt = time.Now().UTC()
		if err := s.userRps.Update(ctx, existing); err != nil {
			return err
		}
	}

	s.mirror.Remove(usersMirrorCollection, id)
	return nil
}

// EnsureAdmin creates active admin user with provided credentials
// unless one already exists, used by startup bootstrap
func (s *userService) EnsureAdmin(ctx context.Context, email string, password string, username string) error {
	existing, err := s.userRps.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil {
		return nil
	}

	admin := &model.User{
		Email:    email,
		Username: username,
		Role:     model.RoleAdmin,
	}

	if _, err := s.Create(ctx, admin, password); err != nil {
		return fmt.Errorf("failed to create default admin user - %w", err)
	}
	return nil
}

func (s *userService) verifyEmailIsVacant(ctx context.Context, email string, ownID string) error {
	existing, err := s.userRps.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil && existing.ID != ownID {
		return apperrors.NewDuplicateErr("email", email)
	}
	return nil
}
