// Package httputil provides HTTP-related helpers shared by the conformance checkers.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP status code constants.
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// Lowercase HTTP method constants as they appear as OAS path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// ValidStatusPattern checks if a status code string is valid according to the
// OpenAPI spec. Valid values are:
//   - "default" for default response
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX (upper or lower case X)
//   - Numeric codes: 100-599
func ValidStatusPattern(pattern string) bool {
	if pattern == "default" {
		return true
	}

	if len(pattern) != StatusCodeLength {
		return false
	}

	upper := strings.ToUpper(pattern)
	if upper[1] == WildcardChar && upper[2] == WildcardChar {
		return upper[0] >= '1' && upper[0] <= '5'
	}

	code, err := strconv.Atoi(pattern)
	return err == nil && code >= MinStatusCode && code <= MaxStatusCode
}

// MatchStatusPattern reports whether a concrete status code matches a response
// key. "default" matches any code; "2XX" style patterns match by class;
// numeric patterns match exactly.
func MatchStatusPattern(pattern string, code int) bool {
	if pattern == "default" {
		return true
	}

	upper := strings.ToUpper(pattern)
	if len(upper) == StatusCodeLength && upper[1] == WildcardChar && upper[2] == WildcardChar {
		return int(upper[0]-'0') == code/100
	}

	exact, err := strconv.Atoi(pattern)
	return err == nil && exact == code
}

// MatchMediaType checks if a declared media type pattern matches a concrete
// media type. Supports wildcards like "application/*" and "*/*".
func MatchMediaType(pattern, mediaType string) bool {
	if pattern == "*/*" {
		return true
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(mediaType, prefix)
	}

	return pattern == mediaType
}

// IsJSONMediaType reports whether a media type carries a JSON payload,
// including structured suffix types like application/problem+json.
func IsJSONMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "application/json") || strings.HasSuffix(mediaType, "+json")
}
