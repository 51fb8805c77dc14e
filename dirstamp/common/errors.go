package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common error types used across dirstamp packages
var (
	ErrPathEmpty     = errors.New("path cannot be empty")
	ErrPathInvalid   = errors.New("path contains invalid characters")
	ErrPathNotFound  = errors.New("path does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
	ErrAccessDenied  = errors.New("permission denied")
)

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

// ValidatePathCharacters validates that a path doesn't contain invalid characters
func (vu *ValidationUtils) ValidatePathCharacters(path string) error {
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	return nil
}

// ValidateRootPath validates that the traversal root exists and is a
// readable directory. Failures here are the only fatal filesystem errors
// in a run; everything below the root is recoverable.
func (vu *ValidationUtils) ValidateRootPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	if err := vu.ValidatePathCharacters(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrAccessDenied, path)
		}
		return fmt.Errorf("failed to access root %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}
	return nil
}
