package errors

import (
	"encoding/json"
	"fmt"
)

// ValidationErr means request payload is malformed - missing required
// field or invalid value
type ValidationErr struct {
	field   string
	message string
}

func (e *ValidationErr) Error() string {
	return e.message
}

// Field names the offending payload field
func (e *ValidationErr) Field() string {
	return e.field
}

func (e *ValidationErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}{Field: e.field, Message: e.message})
}

// NewValidationErr builds new ValidationErr
func NewValidationErr(field string, msg string) *ValidationErr {
	return &ValidationErr{field: field, message: msg}
}

// DuplicateErr means unique constraint violation on write
type DuplicateErr struct {
	field   string
	message string
}

func (e *DuplicateErr) Error() string {
	return e.message
}

// Field names the constrained field
func (e *DuplicateErr) Field() string {
	return e.field
}

// NewDuplicateErr builds new DuplicateErr
func NewDuplicateErr(field string, value string) *DuplicateErr {
	return &DuplicateErr{field: field, message: fmt.Sprintf("%s %q already exists", field, value)}
}

// NotFoundErr means entity with provided id is absent
type NotFoundErr struct {
	message string
}

func (e *NotFoundErr) Error() string {
	return e.message
}

// NewNotFoundErr builds new NotFoundErr
func NewNotFoundErr(entity string, id string) *NotFoundErr {
	return &NotFoundErr{message: fmt.Sprintf("%s with id %s is not found", entity, id)}
}

// AuthErr means provided credentials or token are not valid
type AuthErr struct {
	message string
}

func (e *AuthErr) Error() string {
	return e.message
}

// NewAuthErr builds new AuthErr
func NewAuthErr(msg string) *AuthErr {
	return &AuthErr{message: msg}
}
