package repository

import (
	"context"

	"github.com/yshebel/customerhub/internal/model"
)

// ListFilter restricts which records list operations return
type ListFilter struct {
	// Query is case-insensitive substring matched against searchable
	// text fields, empty means no restriction
	Query string
	// IncludeInactive includes soft-deleted records
	IncludeInactive bool
}

// CustomerRepository represents behavior for customer storage.
// Find methods return nil without error when record is absent
type CustomerRepository interface {
	Create(context.Context, *model.Customer) error
	FindByID(context.Context, string) (*model.Customer, error)
	FindByEmail(context.Context, string) (*model.Customer, error)
	FindAll(context.Context, ListFilter) ([]*model.Customer, error)
	Update(context.Context, *model.Customer) error
}

// UserRepository represents behavior for user storage.
// Find methods return nil without error when record is absent
type UserRepository interface {
	Create(context.Context, *model.User) error
	FindByID(context.Context, string) (*model.User, error)
	FindByEmail(context.Context, string) (*model.User, error)
	FindAll(context.Context, ListFilter) ([]*model.User, error)
	Update(context.Context, *model.User) error
}
