package photo

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error types in the photofind pipeline.
type ErrorCode string

const (
	// ErrValidation covers malformed or missing request input.
	ErrValidation ErrorCode = "VALIDATION_FAILED"
	// ErrScan covers directory listing and metadata lookup failures.
	ErrScan ErrorCode = "SCAN_FAILED"
	// ErrNoMatches is returned when a report is requested over an empty match set.
	ErrNoMatches ErrorCode = "NO_MATCHES"
	// ErrReportWrite covers report artifact write failures.
	ErrReportWrite ErrorCode = "REPORT_WRITE_FAILED"
	// ErrMailDelivery covers relay rejection or unreachability.
	ErrMailDelivery ErrorCode = "MAIL_DELIVERY_FAILED"
)

// PipelineError represents a structured error in the photofind pipeline.
type PipelineError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (pe *PipelineError) Error() string {
	return fmt.Sprintf("[%s]: %s", pe.Code, pe.Message)
}

// Unwrap returns the underlying cause error.
func (pe *PipelineError) Unwrap() error {
	return pe.Cause
}

// NewPipelineError creates a new structured pipeline error.
func NewPipelineError(code ErrorCode, message string) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
	}
}

// WithCause adds the underlying cause error.
func (pe *PipelineError) WithCause(err error) *PipelineError {
	pe.Cause = err
	return pe
}

// HasErrorCode checks if an error carries a specific pipeline error code.
func HasErrorCode(err error, code ErrorCode) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
