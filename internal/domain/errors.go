package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Specific errors below wrap one of these so
// transports can branch with errors.Is on the kind alone.
var (
	// ErrAuthenticationRequired is returned when no principal could be resolved.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrForbidden is returned when the principal lacks rights over the target entity.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")
)

var (
	ErrTestNotFound      = fmt.Errorf("aptitude test %w", ErrNotFound)
	ErrAttemptNotFound   = fmt.Errorf("test attempt %w", ErrNotFound)
	ErrInterviewNotFound = fmt.Errorf("interview %w", ErrNotFound)
	ErrQuestionNotFound  = fmt.Errorf("question %w", ErrNotFound)

	// ErrAlreadyAttempted is returned under the single-attempt policy when the
	// candidate already has an attempt recorded for the test.
	ErrAlreadyAttempted = fmt.Errorf("%w: attempt already submitted", ErrValidation)
	// ErrNotQuestionSet is returned when a test without the question-set flag is
	// attached to an interview.
	ErrNotQuestionSet = fmt.Errorf("%w: test is not marked as a question set", ErrValidation)
)

// Validationf builds an ErrValidation with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Forbiddenf builds an ErrForbidden with a formatted reason.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
