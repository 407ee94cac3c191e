package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the longest name accepted, matching the VARCHAR(255) column.
const MaxNameLength = 255

// User validation errors
var (
	ErrEmptyUserName   = NewValidationError("name", "cannot be empty", nil)
	ErrUserNameTooLong = NewValidationError("name", "must be at most 255 characters", nil)
)

// User represents a registered person.
// ID is assigned by the store on creation and never changes afterwards.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewUser creates a User that has not been persisted yet (ID is zero).
// Returns an error if the name is invalid.
func NewUser(name string) (*User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID < 0 {
		return NewValidationError("id", "cannot be negative", ErrInvalidID)
	}
	return ValidateName(u.Name)
}

// Rename replaces the user's name after validating it and bumps UpdatedAt.
// The user is left untouched when the new name is invalid.
func (u *User) Rename(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateName enforces the name rules: present, not only whitespace, and
// no longer than MaxNameLength characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyUserName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrUserNameTooLong
	}
	return nil
}
