package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason codes surfaced to clients. Unauthorized responses distinguish a
// missing token from a rejected one; forbidden responses carry the role
// diagnostics in Details.
const (
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNoRole             = "NO_ROLE"
	CodeRoleNotAllowed     = "ROLE_NOT_ALLOWED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeServerFault        = "SERVER_FAULT"
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

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewMissingToken reports an absent or malformed Authorization header.
func NewMissingToken(message string) error {
	return NewDomainError(CodeMissingToken, message, http.StatusUnauthorized, nil)
}

// NewInvalidToken reports a token that failed signature or expiry checks.
func NewInvalidToken(message string) error {
	return NewDomainError(CodeInvalidToken, message, http.StatusUnauthorized, nil)
}

// NewInvalidCredentials is the unified login failure. Unknown email and wrong
// secret map to the same response to prevent account enumeration.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewForbidden(code, message string, details map[string]any) error {
	return NewDomainError(code, message, http.StatusForbidden, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeServerFault,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unexpected errors
// collapse to SERVER_FAULT so internals never leak into a response body.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeServerFault,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
