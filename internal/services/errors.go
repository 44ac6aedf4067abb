package services

import (
	"errors"
	"fmt"
)

var (
	ErrShareNotFound     = errors.New("share link not found")
	ErrShareAccessDenied = errors.New("share link not owned by requester")
	ErrShareExpired      = errors.New("share link expired")
	ErrShareHidden       = errors.New("share link hidden by moderation")
	ErrShareInactive     = errors.New("share link revoked")
	ErrPasswordRequired  = errors.New("password required")
	ErrPasswordIncorrect = errors.New("password incorrect")

	ErrScenarioNotFound = errors.New("scenario not found")
	ErrReportNotFound   = errors.New("report not found")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError reports an attempted state transition from a
// terminal or incompatible status.
type InvalidTransitionError struct {
	ReportID string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("report %s cannot transition from %s to %s", e.ReportID, e.From, e.To)
}
