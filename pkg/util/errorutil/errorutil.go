package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes for the application taxonomy.
const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeFieldValidationFailed = "FIELD_VALIDATION_FAILED"
	CodeCommentRequired       = "COMMENT_REQUIRED"
	CodeFieldInUse            = "FIELD_IN_USE"
	CodeDuplicateValue        = "DUPLICATE_VALUE"
	CodeAccountDisabled       = "ACCOUNT_DISABLED"
	CodeForbidden             = "FORBIDDEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeTerminalState         = "TERMINAL_STATE"
	CodeConflict              = "CONFLICT"
	CodeNotFound              = "NOT_FOUND"
	CodeRemoteError           = "REMOTE_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewFieldValidationError carries the collected schema-vs-value violations
// so callers can surface them together.
func NewFieldValidationError(violations any) error {
	return NewDomainError(CodeFieldValidationFailed, "field validation failed", http.StatusUnprocessableEntity, map[string]any{
		"violations": violations,
	})
}

func NewCommentRequired(action string) error {
	return NewDomainError(CodeCommentRequired, fmt.Sprintf("action %s requires a comment", action), http.StatusBadRequest, map[string]any{
		"action": action,
	})
}

func NewFieldInUse(field string) error {
	return NewDomainError(CodeFieldInUse, fmt.Sprintf("field %s is referenced by existing tickets", field), http.StatusConflict, map[string]any{
		"field": field,
	})
}

func NewDuplicateValue(values []string) error {
	return NewDomainError(CodeDuplicateValue, "option values must be unique within a list", http.StatusConflict, map[string]any{
		"values": values,
	})
}

func NewAccountDisabled() error {
	return NewDomainError(CodeAccountDisabled, "account disabled", http.StatusForbidden, nil)
}

func NewTerminalState(status string) error {
	return NewDomainError(CodeTerminalState, fmt.Sprintf("ticket is in terminal status %s", status), http.StatusConflict, map[string]any{
		"status": status,
	})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewRemoteError wraps a persistence collaborator failure. Fatal to the
// operation, never to the process; writes are not retried automatically.
func NewRemoteError(err error) error {
	return &DomainError{
		Code:       CodeRemoteError,
		Message:    "remote collaborator failure",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf extracts the taxonomy code from an error, empty if none.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func MapError(err error) error {
	return ToDomainError(err)
}
