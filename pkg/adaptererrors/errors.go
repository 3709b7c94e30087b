package adaptererrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exit codes reported by the adapter process. Orchestrators branch on these
// without parsing stderr, so the mapping is part of the public contract.
const (
	ExitOK              = 0
	ExitOperationFailed = 1
	ExitUnknownResource = 2
	ExitInvalidInput    = 3
)

// InvalidInputError reports a missing, empty, or unparseable input document.
// The request never reaches a binding when this is raised.
type InvalidInputError struct {
	Err error
}

// NewInvalidInputError constructs an InvalidInputError.
func NewInvalidInputError(err error) error {
	return &InvalidInputError{Err: err}
}

func (e *InvalidInputError) Error() string {
	if e.Err == nil {
		return "invalid input document"
	}
	return "invalid input document: " + e.Err.Error()
}

// Unwrap exposes the underlying error.
func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Is checks if this error matches another InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	_, ok := target.(*InvalidInputError)
	return ok
}

// UnknownResourceTypeError is returned when no binding resolves for the
// requested resource type.
type UnknownResourceTypeError struct {
	ResourceType string
	Known        []string
}

// NewUnknownResourceTypeError constructs an UnknownResourceTypeError.
func NewUnknownResourceTypeError(resourceType string, known []string) error {
	copied := make([]string, len(known))
	copy(copied, known)
	sort.Strings(copied)
	return &UnknownResourceTypeError{ResourceType: resourceType, Known: copied}
}

func (e *UnknownResourceTypeError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no binding registered for resource type '%s'", e.ResourceType)
	}
	return fmt.Sprintf(
		"no binding registered for resource type '%s'\nHint: supported types: %s",
		e.ResourceType,
		strings.Join(e.Known, ", "),
	)
}

// Is checks if this error matches another UnknownResourceTypeError.
func (e *UnknownResourceTypeError) Is(target error) bool {
	_, ok := target.(*UnknownResourceTypeError)
	return ok
}

// UnsupportedOperationError is returned when a binding resolves but does not
// implement the capability the requested operation needs.
type UnsupportedOperationError struct {
	ResourceType string
	Operation    string
}

// NewUnsupportedOperationError constructs an UnsupportedOperationError.
func NewUnsupportedOperationError(resourceType, operation string) error {
	return &UnsupportedOperationError{ResourceType: resourceType, Operation: operation}
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf(
		"binding for '%s' does not support operation '%s'\nHint: check the binding's declared capabilities",
		e.ResourceType,
		e.Operation,
	)
}

// Is checks if this error matches another UnsupportedOperationError.
func (e *UnsupportedOperationError) Is(target error) bool {
	_, ok := target.(*UnsupportedOperationError)
	return ok
}

// ResourceOperationError wraps a failure raised by a binding while executing
// an operation. The binding's own error is preserved for diagnostics but
// never reaches stdout.
type ResourceOperationError struct {
	ResourceType string
	Operation    string
	Err          error
}

// NewResourceOperationError constructs a ResourceOperationError.
func NewResourceOperationError(resourceType, operation string, err error) error {
	return &ResourceOperationError{ResourceType: resourceType, Operation: operation, Err: err}
}

func (e *ResourceOperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("operation '%s' failed for resource type '%s'", e.Operation, e.ResourceType)
	}
	return fmt.Sprintf("operation '%s' failed for resource type '%s': %v", e.Operation, e.ResourceType, e.Err)
}

// Unwrap exposes the binding's error.
func (e *ResourceOperationError) Unwrap() error {
	return e.Err
}

// Is checks if this error matches another ResourceOperationError.
func (e *ResourceOperationError) Is(target error) bool {
	_, ok := target.(*ResourceOperationError)
	return ok
}

// EncodingError reports a failure to serialize the result envelope. It should
// not occur with well-formed binding output and is treated as internal.
type EncodingError struct {
	Err error
}

// NewEncodingError constructs an EncodingError.
func NewEncodingError(err error) error {
	return &EncodingError{Err: err}
}

func (e *EncodingError) Error() string {
	if e.Err == nil {
		return "failed to encode result envelope"
	}
	return "failed to encode result envelope: " + e.Err.Error()
}

// Unwrap exposes the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is checks if this error matches another EncodingError.
func (e *EncodingError) Is(target error) bool {
	_, ok := target.(*EncodingError)
	return ok
}

// ExitCode maps an error to the adapter's process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		return ExitInvalidInput
	}

	var unknown *UnknownResourceTypeError
	if errors.As(err, &unknown) {
		return ExitUnknownResource
	}

	var unsupported *UnsupportedOperationError
	if errors.As(err, &unsupported) {
		return ExitUnknownResource
	}

	return ExitOperationFailed
}
