package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Common error types used across filesystem packages
var (
	ErrPathEmpty    = errors.New("path cannot be empty")
	ErrPathTooLong  = errors.New("path too long (max 4096 characters)")
	ErrPathInvalid  = errors.New("path contains invalid characters")
	ErrRootNotExist = errors.New("search root does not exist")
	ErrRootNotDir   = errors.New("search root is not a directory")

	// ErrConfiguration is the parent of every error reported before traversal starts.
	ErrConfiguration   = errors.New("invalid search configuration")
	ErrInvalidPattern  = fmt.Errorf("%w: invalid pattern", ErrConfiguration)
	ErrInvalidRange    = fmt.Errorf("%w: invalid range", ErrConfiguration)
	ErrUnknownFileKind = fmt.Errorf("%w: unknown file kind", ErrConfiguration)
	ErrBudgetNotLast   = fmt.Errorf("%w: result budget must be the last predicate", ErrConfiguration)
	ErrNotImplemented  = fmt.Errorf("%w: not implemented", ErrConfiguration)

	ErrInvariantViolation = errors.New("internal invariant violated")
	ErrCallbackPanic      = errors.New("callback panicked")
)

// ConfigError wraps a configuration sentinel with a detail message
func ConfigError(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// InvariantError builds the value carried by panics for programming errors
func InvariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// ValidationUtils provides common validation utilities used across packages
type ValidationUtils struct{}

// NewValidationUtils creates a new ValidationUtils instance
func NewValidationUtils() *ValidationUtils {
	return &ValidationUtils{}
}

// ValidateContextCancellation checks if context is cancelled and returns appropriate error
func (vu *ValidationUtils) ValidateContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ValidatePath rejects empty, oversized or NUL-containing paths
func (vu *ValidationUtils) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	if len(path) > 4096 {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	return nil
}

// ValidateSearchRoot validates that the search root exists and is a directory
func (vu *ValidationUtils) ValidateSearchRoot(path string) error {
	if err := vu.ValidatePath(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRootNotExist, path)
		}
		return fmt.Errorf("failed to access search root %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, path)
	}
	return nil
}

// ErrorUtils provides common error handling utilities
type ErrorUtils struct{}

// NewErrorUtils creates a new ErrorUtils instance
func NewErrorUtils() *ErrorUtils {
	return &ErrorUtils{}
}

// WrapError wraps an error with additional context
func (eu *ErrorUtils) WrapError(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", context, err)
}

// LogAndWrapError logs an error and wraps it with context
func (eu *ErrorUtils) LogAndWrapError(log zerolog.Logger, err error, level zerolog.Level, message string, args ...any) error {
	if err == nil {
		return nil
	}

	context := fmt.Sprintf(message, args...)
	log.WithLevel(level).Err(err).Msg(context)

	return fmt.Errorf("%s: %w", context, err)
}

// IsVanished reports whether err means an entry disappeared between listing and stat
func (eu *ErrorUtils) IsVanished(err error) bool {
	return err != nil && errors.Is(err, os.ErrNotExist)
}
