// Package issues provides a unified issue type for conformance problems.
package issues

import (
	"fmt"

	"github.com/erraggy/oasassert/internal/severity"
)

// Issue represents a single problem found while checking a message against
// the specification.
type Issue struct {
	// Path locates the problem within the checked value (e.g., "body.items[2].price")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Value is the problematic value (optional; omitted for redacted locations)
	Value any
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}
