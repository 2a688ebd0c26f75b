// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeTemplateMissing indicates no base template was selected
	TypeTemplateMissing Type = "TEMPLATE_MISSING"

	// TypeTokenUnresolved indicates critical template tokens could not be resolved
	TypeTokenUnresolved Type = "TOKEN_UNRESOLVED"

	// TypeExhibitFetch indicates an exhibit could not be retrieved or parsed
	TypeExhibitFetch Type = "EXHIBIT_FETCH_ERROR"

	// TypeMerge indicates the base document is corrupt or unreadable
	TypeMerge Type = "MERGE_FAILURE"

	// TypeStorage indicates a storage backend error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// MissingTemplate creates a missing template error
func MissingTemplate(name string) *Error {
	return Newf(TypeTemplateMissing, "no base template selected: %s", name)
}

// UnresolvedTokens creates a critical-token resolution error
func UnresolvedTokens(tokens []string) *Error {
	return Newf(TypeTokenUnresolved, "critical tokens unresolved: %v", tokens).
		WithContext("tokens", tokens)
}

// ExhibitFetch creates an exhibit fetch error
func ExhibitFetch(exhibitID string, cause error) *Error {
	return Wrapf(TypeExhibitFetch, cause, "exhibit %s could not be retrieved", exhibitID)
}

// Merge creates a merge failure error
func Merge(message string, cause error) *Error {
	return Wrap(TypeMerge, message, cause)
}

// Storage creates a storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
