package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Source errors
	ErrDataUnavailable = errors.New("keyword data unavailable")
	ErrDuplicateLabel  = fmt.Errorf("%w: duplicate column label", ErrDataUnavailable)
	ErrTooFewRows      = fmt.Errorf("%w: too few rows", ErrDataUnavailable)

	// Argument errors
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error constructors with context
func NewDataUnavailableError(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataUnavailable, source)
	}
	if errors.Is(err, ErrDataUnavailable) {
		return fmt.Errorf("%s: %w", source, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, source, err)
}

func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

// Error checking helpers
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
