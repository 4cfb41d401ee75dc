package handlers

import (
	"time"

	"github.com/yshebel/customerhub/internal/model"
)

// External JSON shape is fixed regardless of storage backend: optional
// text fields serialize as "", timestamps as ISO-8601 strings or null
// when unset. Password hash has no field to serialize into.

type customerResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   string  `json:"company"`
	Address   string  `json:"address"`
	Notes     string  `json:"notes"`
	Active    bool    `json:"active"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt *string    `json:"createdAt"`
	UpdatedAt *string    `json:"updatedAt"`
}

func toCustomerResponse(c *model.Customer) *customerResponse {
	return &customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		Notes:     c.Notes,
		Active:    c.Active,
		CreatedAt: isoTimestamp(c.CreatedAt),
		UpdatedAt: isoTimestamp(c.UpdatedAt),
	}
}

func toCustomerResponses(customers []*model.Customer) []*customerResponse {
	res := make([]*customerResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, toCustomerResponse(c))
	}
	return res
}

func toUserResponse(u *model.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: isoTimestamp(u.CreatedAt),
		UpdatedAt: isoTimestamp(u.UpdatedAt),
	}
}

func toUserResponses(users []*model.User) []*userResponse {
	res := make([]*userResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res
}

func isoTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
