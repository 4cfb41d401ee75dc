package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role restricts which operations user is allowed to perform
type Role string

const (
	// RoleAdmin grants access to user management
	RoleAdmin Role = "admin"
	// RoleUser grants access to customer management only
	RoleUser Role = "user"
)

// Valid reports whether role is one of the enumerated values
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is user model entity
type User struct {
	ID           string    `bson:"_id,omitempty"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash" msgpack:"-"`
	Username     string    `bson:"username"`
	Role         Role      `bson:"role"`
	Active       bool      `bson:"active"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// VerifyPassword checks plaintext password against stored hash
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// UserPatch carries partial user changes, nil field means "leave unchanged".
// Password is plaintext and hashed before it reaches storage
type UserPatch struct {
	Email    *string
	Password *string
	Username *string
	Role     *Role
	Active   *bool
}

// Merge applies patch on top of user and returns the result,
// password is handled separately by the service
func (u User) Merge(patch UserPatch) User {
	if patch.Email != nil {
		u.Email = *patch.Email
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}

	if patch.Role != nil {
		u.Role = *patch.Role
	}

	if patch.Active != nil {
		u.Active = *patch.Active
	}
	return u
}

// GeneratePasswordHash produces salted bcrypt hash for plaintext password
func GeneratePasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
