package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
)

// User is a catalog row. The identifier is assigned by the catalog.
type User struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// ValidateNewUser checks the caller-supplied fields of a user before insert.
func ValidateNewUser(username, email string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	return nil
}
