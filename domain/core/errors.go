package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// State errors
	ErrNoTrace = errors.New("no sampling result available")
	ErrNoModel = errors.New("no model has been built")

	// Validation errors
	ErrInvalidConfig    = errors.New("invalid test configuration")
	ErrInvalidObserved  = errors.New("invalid observed data")
	ErrVariableNotFound = errors.New("model variable not found")

	// Sampling errors
	ErrSampling = errors.New("sampling failed")
)

// Error constructors with context
func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewObservedDataError(which string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidObserved, which, reason)
}

func NewVariableNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrVariableNotFound, name)
}

func NewSamplingError(err error) error {
	return fmt.Errorf("%w: %v", ErrSampling, err)
}

// Error checking helpers
func IsNoTraceError(err error) bool {
	return errors.Is(err, ErrNoTrace)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrInvalidObserved)
}
