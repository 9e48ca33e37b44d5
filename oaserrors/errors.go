// Package oaserrors provides structured error types for oasassert.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between fatal configuration
// problems, schema loading failures, and per-message conformance failures.
//
// # Error Categories
//
//   - ConfigError: Invalid configuration or missing schema file (fatal at startup)
//   - SchemaError: Malformed or incomplete OpenAPI document (fatal at startup)
//   - OperationNotFoundError: No path template matches the captured request
//   - MethodNotAllowedError: A path matches but not for the request's method
//   - ResponseSpecNotFoundError: No response entry matches the captured status code
//   - BodyDecodeError: A captured body is not parseable per its declared content type
//   - ConformanceError: One or more schema rule violations, with the full issue list
//
// # Usage with errors.Is
//
//	err := sut.CheckResponse()
//	if errors.Is(err, oaserrors.ErrResponseSpecNotFound) {
//	    // The response status code is undocumented
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrSchema indicates a malformed or incomplete OpenAPI document.
	ErrSchema = errors.New("schema error")

	// ErrOperationNotFound indicates no path template matched the request path.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrMethodNotAllowed indicates a path matched but not for the request method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrResponseSpecNotFound indicates no response entry matched the status code.
	ErrResponseSpecNotFound = errors.New("response specification not found")

	// ErrBodyDecode indicates a body could not be decoded per its content type.
	ErrBodyDecode = errors.New("body decode error")

	// ErrConformance indicates one or more schema rule violations.
	ErrConformance = errors.New("conformance error")
)

// ConfigError represents an invalid configuration or input.
// This includes a missing schema file and invalid options.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// SchemaError represents a failure to load or compile an OpenAPI document.
// This includes YAML/JSON deserialization errors, missing required OAS fields,
// and $ref resolution failures (dangling or circular references).
type SchemaError struct {
	// Path is the file path or source identifier
	Path string
	// Ref is the $ref string that failed to resolve (empty for non-ref errors)
	Ref string
	// IsCircular is true if this error is due to a circular $ref
	IsCircular bool
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// OperationNotFoundError indicates that no path template in the document
// matched the captured request path.
type OperationNotFoundError struct {
	// Path is the concrete request path that failed to match
	Path string
}

// Error returns a human-readable error message.
func (e *OperationNotFoundError) Error() string {
	return fmt.Sprintf("operation not found: no path template matches %q", e.Path)
}

// Is reports whether target matches this error type.
func (e *OperationNotFoundError) Is(target error) bool {
	return target == ErrOperationNotFound
}

// MethodNotAllowedError indicates that a path template matched the request
// path, but the operation for the request's HTTP method is not declared.
type MethodNotAllowedError struct {
	// Template is the path template that matched
	Template string
	// Method is the HTTP method that has no operation
	Method string
}

// Error returns a human-readable error message.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for path %s", e.Method, e.Template)
}

// Is reports whether target matches this error type.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// ResponseSpecNotFoundError indicates that no response entry (exact code,
// wildcard class, or default) matched the captured response status code.
type ResponseSpecNotFoundError struct {
	// Template is the matched path template
	Template string
	// Method is the HTTP method of the operation
	Method string
	// StatusCode is the undocumented status code
	StatusCode int
}

// Error returns a human-readable error message.
func (e *ResponseSpecNotFoundError) Error() string {
	return fmt.Sprintf("no response specification for status %d on %s %s", e.StatusCode, e.Method, e.Template)
}

// Is reports whether target matches this error type.
func (e *ResponseSpecNotFoundError) Is(target error) bool {
	return target == ErrResponseSpecNotFound
}

// BodyDecodeError indicates that a captured body could not be decoded
// according to its declared content type.
type BodyDecodeError struct {
	// ContentType is the declared content type of the body
	ContentType string
	// Cause is the underlying decode error
	Cause error
}

// Error returns a human-readable error message.
func (e *BodyDecodeError) Error() string {
	msg := "body decode error"
	if e.ContentType != "" {
		msg += " (" + e.ContentType + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *BodyDecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *BodyDecodeError) Is(target error) bool {
	return target == ErrBodyDecode
}

// ConformanceError carries the full set of schema rule violations found while
// checking a single request or response.
type ConformanceError struct {
	// Subject identifies what was checked: "request" or "response"
	Subject string
	// Violations lists each violation as a human-readable string, most
	// specific first. Always non-empty.
	Violations []string
}

// Error returns the first (most specific) violation, followed by a count of
// any remaining ones. Use Detail() for the full list.
func (e *ConformanceError) Error() string {
	if len(e.Violations) == 0 {
		return e.Subject + " does not conform to the specification"
	}
	msg := fmt.Sprintf("%s does not conform: %s", e.Subject, e.Violations[0])
	if n := len(e.Violations) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Detail returns every violation joined on newlines.
func (e *ConformanceError) Detail() string {
	return strings.Join(e.Violations, "\n")
}

// Is reports whether target matches this error type.
func (e *ConformanceError) Is(target error) bool {
	return target == ErrConformance
}
