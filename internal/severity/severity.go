// Package severity provides severity level constants and utilities
// for issues reported during conformance checking.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a conformance issue.
type Severity int

const (
	// SeverityError indicates a rule violation that fails the check.
	SeverityError Severity = iota

	// SeverityWarning indicates a best-practice violation or a lossy check
	// (e.g. format keywords) that does not fail the check on its own.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates content that cannot be checked at all.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
