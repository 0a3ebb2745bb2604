package usecase

import (
	"errors"
	"fmt"

	"skills-matrix/internal/domain/matrix"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrInvalidLevel       = matrix.ErrInvalidLevel
	ErrStorage            = errors.New("storage error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError is an ErrInvalidInput with a message fit for the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInput(msg string) error {
	return &ValidationError{Message: msg}
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
