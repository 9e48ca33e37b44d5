package conform

import (
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/erraggy/oasassert/internal/stringutil"
	"github.com/erraggy/oasassert/spec"
)

// SchemaValidator checks decoded JSON values against OpenAPI schemas. It
// covers the JSON Schema subset that matters for HTTP bodies, parameters,
// and headers: types, string/number/array/object constraints, enum, and the
// allOf/anyOf/oneOf combinators.
//
// Validation is pure: identical inputs always produce the identical list of
// findings, and there are no side effects beyond an internal compiled-pattern
// cache.
type SchemaValidator struct {
	// patternCache caches compiled regex patterns (sync.Map[string, *regexp.Regexp])
	patternCache sync.Map

	// patternCount tracks the approximate number of cached patterns for size capping
	patternCount atomic.Int32

	// redactValues keeps actual values out of messages, for data that may
	// carry credentials
	redactValues bool
}

// NewSchemaValidator creates a new SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// NewRedactingSchemaValidator creates a SchemaValidator whose messages
// describe violations without echoing the offending value. Use it for
// headers and cookies.
func NewRedactingSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		redactValues: true,
	}
}

// Validate checks data against schema and returns every violation found,
// with each finding's Path rooted at path. A nil schema accepts anything.
func (v *SchemaValidator) Validate(data any, schema *spec.Schema, path string) []ValidationError {
	var out []ValidationError
	v.validate(data, schema, path, &out)
	return out
}

func (v *SchemaValidator) validate(data any, schema *spec.Schema, path string, out *[]ValidationError) {
	if schema == nil {
		return
	}

	if data == nil {
		if !schema.IsNullable() {
			fail(out, path, "value cannot be null")
		}
		return
	}

	// A type mismatch makes the remaining constraints meaningless
	if !v.checkType(data, schema, path, out) {
		return
	}

	switch d := data.(type) {
	case string:
		v.checkString(d, schema, path, out)
	case float64:
		v.checkNumber(d, schema, path, out)
	case int, int64:
		v.checkNumber(asFloat64(d), schema, path, out)
	case bool:
		// No constraints beyond type for booleans
	case []any:
		v.checkArray(d, schema, path, out)
	case map[string]any:
		v.checkObject(d, schema, path, out)
	}

	if len(schema.Enum) > 0 {
		v.checkEnum(data, schema, path, out)
	}

	v.checkComposition(data, schema, path, out)
}

// checkType reports whether data satisfies the schema's declared type(s),
// recording a finding when it does not. An absent type accepts any value.
func (v *SchemaValidator) checkType(data any, schema *spec.Schema, path string, out *[]ValidationError) bool {
	types := schema.Types()
	if len(types) == 0 {
		return true
	}

	dataType := jsonTypeOf(data)

	for _, schemaType := range types {
		if !typeSatisfies(dataType, schemaType) {
			continue
		}
		// integer admits JSON numbers only when the fractional part is zero
		if schemaType == "integer" && dataType == "number" {
			if f, ok := data.(float64); ok && f != float64(int64(f)) {
				if v.redactValues {
					fail(out, path, "value must be an integer")
				} else {
					fail(out, path, "value must be an integer, got %v", f)
				}
				return false
			}
		}
		return true
	}

	fail(out, path, "expected type %s but got %s", strings.Join(types, " or "), dataType)
	return false
}

func (v *SchemaValidator) checkString(s string, schema *spec.Schema, path string, out *[]ValidationError) {
	if schema.MinLength != nil && len(s) < *schema.MinLength {
		fail(out, path, "string length %d is less than minimum %d", len(s), *schema.MinLength)
	}
	if schema.MaxLength != nil && len(s) > *schema.MaxLength {
		fail(out, path, "string length %d exceeds maximum %d", len(s), *schema.MaxLength)
	}

	if schema.Pattern != "" {
		switch matched, err := v.matchPattern(schema.Pattern, s); {
		case err != nil:
			fail(out, path, "invalid pattern %q: %v", schema.Pattern, err)
		case !matched:
			fail(out, path, "string does not match pattern %q", schema.Pattern)
		}
	}

	if schema.Format != "" {
		v.checkFormat(s, schema.Format, path, out)
	}
}

func (v *SchemaValidator) checkNumber(n float64, schema *spec.Schema, path string, out *[]ValidationError) {
	if schema.Minimum != nil {
		switch {
		case schema.ExclusiveMin() && n <= *schema.Minimum:
			fail(out, path, "value %v must be greater than %v", n, *schema.Minimum)
		case !schema.ExclusiveMin() && n < *schema.Minimum:
			fail(out, path, "value %v is less than minimum %v", n, *schema.Minimum)
		}
	}
	// OAS 3.1 numeric exclusiveMinimum is a bound of its own
	if bound, ok := schema.ExclusiveMinBound(); ok && n <= bound {
		fail(out, path, "value %v must be greater than %v", n, bound)
	}

	if schema.Maximum != nil {
		switch {
		case schema.ExclusiveMax() && n >= *schema.Maximum:
			fail(out, path, "value %v must be less than %v", n, *schema.Maximum)
		case !schema.ExclusiveMax() && n > *schema.Maximum:
			fail(out, path, "value %v exceeds maximum %v", n, *schema.Maximum)
		}
	}
	if bound, ok := schema.ExclusiveMaxBound(); ok && n >= bound {
		fail(out, path, "value %v must be less than %v", n, bound)
	}

	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		if q := n / *schema.MultipleOf; q != float64(int64(q)) {
			fail(out, path, "value %v is not a multiple of %v", n, *schema.MultipleOf)
		}
	}
}

func (v *SchemaValidator) checkArray(arr []any, schema *spec.Schema, path string, out *[]ValidationError) {
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		fail(out, path, "array has %d items, minimum is %d", len(arr), *schema.MinItems)
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		fail(out, path, "array has %d items, maximum is %d", len(arr), *schema.MaxItems)
	}
	if schema.UniqueItems && containsDuplicate(arr) {
		fail(out, path, "array items must be unique")
	}

	if schema.Items != nil {
		for i, item := range arr {
			v.validate(item, schema.Items, fmt.Sprintf("%s[%d]", path, i), out)
		}
	}
}

func (v *SchemaValidator) checkObject(obj map[string]any, schema *spec.Schema, path string, out *[]ValidationError) {
	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			fail(out, path+"."+req, "required property %q is missing", req)
		}
	}

	if schema.MinProperties != nil && len(obj) < *schema.MinProperties {
		fail(out, path, "object has %d properties, minimum is %d", len(obj), *schema.MinProperties)
	}
	if schema.MaxProperties != nil && len(obj) > *schema.MaxProperties {
		fail(out, path, "object has %d properties, maximum is %d", len(obj), *schema.MaxProperties)
	}

	// Sorted keys keep the finding order stable across runs
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		if propSchema, ok := schema.Properties[name]; ok {
			v.validate(obj[name], propSchema, path+"."+name, out)
		} else if !schema.AdditionalAllowed() {
			fail(out, path+"."+name, "additional property %q is not allowed", name)
		}
	}
}

func (v *SchemaValidator) checkEnum(data any, schema *spec.Schema, path string, out *[]ValidationError) {
	for _, allowed := range schema.Enum {
		if reflect.DeepEqual(data, allowed) {
			return
		}
	}
	if v.redactValues {
		fail(out, path, "value is not one of the allowed values")
	} else {
		fail(out, path, "value %v is not one of the allowed values", data)
	}
}

// checkComposition evaluates allOf, anyOf, and oneOf. Combinators are checked
// alongside sibling constraints so the result reports every applicable
// violation, not just the first.
func (v *SchemaValidator) checkComposition(data any, schema *spec.Schema, path string, out *[]ValidationError) {
	for i, subSchema := range schema.AllOf {
		if sub := v.Validate(data, subSchema, path); len(sub) > 0 {
			fail(out, path, "allOf[%d] validation failed", i)
			*out = append(*out, sub...)
		}
	}

	if len(schema.AnyOf) > 0 {
		matched := false
		for _, subSchema := range schema.AnyOf {
			if len(v.Validate(data, subSchema, path)) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			fail(out, path, "value does not match any of the anyOf schemas")
		}
	}

	if len(schema.OneOf) > 0 {
		matchCount := 0
		for _, subSchema := range schema.OneOf {
			if len(v.Validate(data, subSchema, path)) == 0 {
				matchCount++
			}
		}
		switch {
		case matchCount == 0:
			fail(out, path, "value does not match any of the oneOf schemas")
		case matchCount > 1:
			fail(out, path, "value matches %d oneOf schemas, expected exactly 1", matchCount)
		}
	}
}

// checkFormat checks common string formats. Format findings are warnings,
// matching the advisory nature of format in JSON Schema; unknown formats are
// ignored.
func (v *SchemaValidator) checkFormat(s, format, path string, out *[]ValidationError) {
	var kind string
	switch format {
	case "email":
		if !stringutil.IsValidEmail(s) {
			kind = "email address"
		}
	case "uri", "uri-reference":
		if !isValidURI(s) {
			kind = "URI"
		}
	case "date":
		if !dateRegex.MatchString(s) {
			kind = "date (expected YYYY-MM-DD)"
		}
	case "date-time":
		if !dateTimeRegex.MatchString(s) {
			kind = "date-time (expected RFC 3339)"
		}
	case "uuid":
		if !uuidRegex.MatchString(s) {
			kind = "UUID"
		}
	}
	if kind == "" {
		return
	}

	msg := "value is not a valid " + kind
	if !v.redactValues {
		msg = fmt.Sprintf("%q is not a valid %s", s, kind)
	}
	*out = append(*out, ValidationError{
		Path:     path,
		Message:  msg,
		Severity: SeverityWarning,
	})
}

// fail appends an error-severity finding.
func fail(out *[]ValidationError, path, format string, args ...any) {
	*out = append(*out, ValidationError{
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

// maxPatternCacheSize is the upper bound on cached compiled regex patterns.
// When exceeded, the cache is cleared to prevent unbounded memory growth
// from schemas with many unique patterns.
const maxPatternCacheSize = 1000

// matchPattern compiles and matches a regex pattern, caching compilations.
func (v *SchemaValidator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	// The count check and clear are not atomic; under high concurrency
	// multiple goroutines may clear simultaneously. Acceptable because the
	// cache is a performance optimization only.
	if v.patternCount.Add(1) > maxPatternCacheSize {
		v.patternCache.Range(func(key, _ any) bool {
			v.patternCache.Delete(key)
			return true
		})
		v.patternCount.Store(1)
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// jsonTypeOf names the JSON Schema type of a decoded Go value.
func jsonTypeOf(data any) string {
	switch data.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case int, int32, int64, uint, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}

	switch rv := reflect.ValueOf(data); rv.Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// typeSatisfies reports whether a value of dataType is acceptable where the
// schema declares schemaType. integer is a subset of number, and a JSON
// number may stand in for integer (the caller checks the fractional part).
func typeSatisfies(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	if schemaType == "integer" && dataType == "number" {
		return true
	}
	return false
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func containsDuplicate(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

func isValidURI(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "urn:")
}
