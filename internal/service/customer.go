package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yshebel/customerhub/internal/mirror"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/repository"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const customersMirrorCollection = "customers"

// CustomerService represents behavior for customer business operations
type CustomerService interface {
	FindAll(context.Context, repository.ListFilter) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, string, model.CustomerPatch) (*model.Customer, error)
	DeleteByID(context.Context, string) error
}

type customerService struct {
	customerRps repository.CustomerRepository
	mirror      mirror.Mirror
}

// NewCustomerService builds CustomerService
func NewCustomerService(customerRps repository.CustomerRepository, m mirror.Mirror) CustomerService {
	return &customerService{customerRps: customerRps, mirror: m}
}

func (s *customerService) FindAll(ctx context.Context, filter repository.ListFilter) ([]*model.Customer, error) {
	customers, err := s.customerRps.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, apperrors.NewNotFoundErr("customer", id)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := s.verifyEmailIsVacant(ctx, c.Email, ""); err != nil {
		return nil, err
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	c.Active = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.customerRps.Create(ctx, c); err != nil {
		return nil, err
	}

	s.mirror.Store(customersMirrorCollection, c.ID, c)
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	existing, err := s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, apperrors.NewNotFoundErr("customer", id)
	}

	if patch.Email != nil && *patch.Email != existing.Email {
		if err := s.verifyEmailIsVacant(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	merged := existing.Merge(patch)
	merged.UpdatedAt = time.Now().UTC()

	if err := s.customerRps.Update(ctx, &merged); err != nil {
		return nil, err
	}

	s.mirror.Store(customersMirrorCollection, merged.ID, &merged)
	return &merged, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	existing, err := s.customerRps.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return apperrors.NewNotFoundErr("customer", id)
	}

	if existing.Active {
		existing.Active = false
		existing.UpdatedAt = time.Now().UTC()
		if err := s.customerRps.Update(ctx, existing); err != nil {
			return err
		}
	}

	s.mirror.Remove(customersMirrorCollection, id)
	return nil
}

// verifyEmailIsVacant is the fast-path uniqueness check, the unique
// index in storage stays the authoritative enforcement under races
func (s *customerService) verifyEmailIsVacant(ctx context.Context, email string, ownID string) error {
	existing, err := s.customerRps.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil && existing.ID != ownID {
		return apperrors.NewDuplicateErr("email", email)
	}
	return nil
}
