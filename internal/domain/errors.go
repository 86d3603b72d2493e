package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a habit id does not exist in the collection.
	ErrNotFound = errors.New("habit not found")
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// ValidateName checks that a habit name is present.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

// ValidateDate checks that a toggle date is present and formatted as YYYY-MM-DD.
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := ParseDate(date); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
