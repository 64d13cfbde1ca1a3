package entity

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the invoicing workflow. Callers match these with
// errors.Is to branch on failure class.
var (
	// ErrValidation marks local, user-correctable failures. No network call
	// has been made and the draft is untouched.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks a rejected create/update of the authoritative
	// invoice record. Fatal to the submission; the draft is preserved for
	// retry.
	ErrPersistence = errors.New("persistence failed")

	// ErrDraftNotFound is returned when a draft id does not resolve.
	ErrDraftNotFound = errors.New("draft invoice not found")

	// ErrLineItemNotFound is returned by remove with an unknown line id.
	// Reported, not fatal: the draft is unchanged.
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrSubmissionNotFound is returned when a submission id does not resolve.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrSubmissionInFlight is returned when a submit arrives while another
	// submission for the same draft is still persisting or post-processing.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// ValidationError wraps ErrValidation with the offending field for display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps ErrPersistence with the server-supplied message when
// the backend returned one, else a transport-level cause.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "invoice could not be saved"
}

func (e *PersistenceError) Unwrap() error {
	return ErrPersistence
}

// PostProcessingWarning records one failed best-effort side effect after a
// successful persist. Warnings never fail the submission; they are collected
// in step order and surfaced as a secondary notification.
type PostProcessingWarning struct {
	Step       string    `json:"step"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (w PostProcessingWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Step, w.Message)
}
