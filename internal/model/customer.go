package model

import "time"

// Customer is customer model entity
type Customer struct {
	ID        string    `bson:"_id,omitempty"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	Company   string    `bson:"company"`
	Address   string    `bson:"address"`
	Notes     string    `bson:"notes"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// CustomerPatch carries partial customer changes, nil field means "leave unchanged"
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Address *string
	Notes   *string
	Active  *bool
}

// Merge applies patch on top of customer and returns the result,
// id and timestamps are untouched
func (c Customer) Merge(patch CustomerPatch) Customer {
	if patch.Name != nil {
		c.Name = *patch.Name
	}

	if patch.Email != nil {
		c.Email = *patch.Email
	}

	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}

	if patch.Company != nil {
		c.Company = *patch.Company
	}

	if patch.Address != nil {
		c.Address = *patch.Address
	}

	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}

	if patch.Active != nil {
		c.Active = *patch.Active
	}
	return c
}
