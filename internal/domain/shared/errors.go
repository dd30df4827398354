// Package shared contains the error taxonomy used across all domain packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "profile", "overview", "posting"
	Op      string // Operation that failed, e.g., "Toggle", "Paginate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// InvalidArgument builds an ErrInvalidInput domain error.
func InvalidArgument(domain, op, message string) *DomainError {
	return NewDomainError(domain, op, ErrInvalidInput, message)
}

// NotAuthenticated builds an ErrUnauthorized domain error.
func NotAuthenticated(domain, op, message string) *DomainError {
	return NewDomainError(domain, op, ErrUnauthorized, message)
}

// Upstream wraps a storage or transport failure as ErrServiceUnavailable.
func Upstream(domain, op string, err error) *DomainError {
	return WrapError(domain, op, ErrServiceUnavailable, "upstream failure", err)
}

// Profile domain errors
var (
	ErrProfileNotFound     = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrProfileExists       = NewDomainError("profile", "Create", ErrAlreadyExists, "user already exists")
	ErrInvalidCredentials  = NewDomainError("profile", "SignIn", ErrUnauthorized, "Invalid credentials")
	ErrNoSession           = NewDomainError("profile", "Authenticate", ErrUnauthorized, "no active session")
	ErrEmptySkillName      = NewDomainError("profile", "ToggleSavedSkill", ErrInvalidInput, "skillName is required")
	ErrPasswordTooShort    = NewDomainError("profile", "SignUp", ErrInvalidInput, "password must be at least 6 characters")
	ErrMissingContactField = NewDomainError("profile", "SignUp", ErrInvalidInput, "email or mobile is required")
)

// Overview domain errors
var (
	ErrInvalidPage     = NewDomainError("overview", "Paginate", ErrInvalidInput, "page must be a positive integer")
	ErrInvalidPageSize = NewDomainError("overview", "Paginate", ErrInvalidInput, "limit must be a positive integer")
)

// Posting domain errors
var (
	ErrPostingNotFound      = NewDomainError("posting", "Find", ErrNotFound, "Skill not found")
	ErrPostingTitleRequired = NewDomainError("posting", "Validate", ErrInvalidInput, "title is required")
	ErrPostingTooLong       = NewDomainError("posting", "Validate", ErrValueOutOfRange, "description must be at most 500 characters")
	ErrPostingInvalidType   = NewDomainError("posting", "Validate", ErrInvalidInput, "skillType must be teach or learn")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidArgument checks if the error is a validation error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsNotAuthenticated checks if the caller lacks a valid session.
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the caller may not touch the resource.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUpstream checks if the error is from a backing store or service.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsConflict checks if the error reports a uniqueness clash.
func IsConflict(err error) bool {
	return IsAlreadyExists(err)
}

// AsUpstream passes domain errors through and wraps anything else
// (driver errors, open circuits) as an upstream failure.
func AsUpstream(domain, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return Upstream(domain, op, err)
}
