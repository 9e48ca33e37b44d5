package conform

import (
	"strings"

	"github.com/erraggy/oasassert/internal/issues"
	"github.com/erraggy/oasassert/internal/severity"
)

// ValidationError represents a single conformance issue.
type ValidationError = issues.Issue

// Severity indicates the severity of a validation error.
type Severity = severity.Severity

// Severity constants re-exported for convenience.
const (
	SeverityError    = severity.SeverityError
	SeverityWarning  = severity.SeverityWarning
	SeverityInfo     = severity.SeverityInfo
	SeverityCritical = severity.SeverityCritical
)

// Result contains the outcome of checking one request or response against the
// specification. Results are constructed fresh per check and never mutated
// after being returned.
type Result struct {
	// Valid is true if the message passes all checks.
	Valid bool

	// Errors contains all violations found, in discovery order.
	Errors []ValidationError

	// Warnings contains best-practice findings that do not fail the check.
	Warnings []ValidationError

	// MatchedPath is the path template that matched the request
	// (e.g., "/pets/{petId}"). Empty if no template matched.
	MatchedPath string

	// MatchedMethod is the HTTP method of the request.
	MatchedMethod string

	// StatusCode is the response status code. Zero for request checks.
	StatusCode int

	// MatchErr holds the typed match failure (operation not found, method
	// not allowed, response spec not found) when one occurred; it is also
	// reflected in Errors. Nil otherwise.
	MatchErr error

	// PathParams contains the path parameter values extracted during matching.
	PathParams map[string]string
}

// newResult creates a Result that is valid until an error is added.
func newResult() *Result {
	return &Result{Valid: true}
}

// addError records a violation and marks the result invalid.
func (r *Result) addError(path, message string, sev Severity) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}

// addWarning records a non-fatal finding.
func (r *Result) addWarning(path, message string) {
	r.Warnings = append(r.Warnings, ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
	})
}

// FirstError returns the first (most specific) violation message, or ""
// when the result is valid.
func (r *Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	e := r.Errors[0]
	return e.Path + ": " + e.Message
}

// Summary joins every violation into one newline-separated string.
func (r *Result) Summary() string {
	if len(r.Errors) == 0 {
		return ""
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Path + ": " + e.Message
	}
	return strings.Join(parts, "\n")
}

// Violations returns each violation as a human-readable string, in order.
func (r *Result) Violations() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Path + ": " + e.Message
	}
	return parts
}
