package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrBusinessRule marks structurally valid input that breaks a domain
	// rule. It wraps ErrInvalidInput.
	ErrBusinessRule = fmt.Errorf("%w: business rule violation", ErrInvalidInput)
)

// InvalidInput builds an ErrInvalidInput carrying msg
func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// BusinessRule builds an ErrBusinessRule carrying msg
func BusinessRule(msg string) error {
	return fmt.Errorf("%w: %s", ErrBusinessRule, msg)
}

// NotFound builds an ErrNotFound carrying msg
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Conflict builds an ErrConflict carrying msg
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}
