package spec

// Schema represents the JSON-Schema-like constraint tree attached to
// parameters, bodies, and headers. It supports the subset shared by OAS 2.0,
// OAS 3.0, and OAS 3.1 that is relevant to message validation.
//
// After loading, schemas contain no $ref nodes: references are resolved and
// inlined by the loader, so the tree is finite and cycle-free.
type Schema struct {
	// Type validation. Type is a string, or a []string for OAS 3.1 type arrays.
	Type interface{}   `json:"type,omitempty"`
	Enum []interface{} `json:"enum,omitempty"`

	// Numeric validation
	MultipleOf       *float64    `json:"multipleOf,omitempty"`
	Maximum          *float64    `json:"maximum,omitempty"`
	ExclusiveMaximum interface{} `json:"exclusiveMaximum,omitempty"` // bool in OAS 2.0/3.0, number in 3.1+
	Minimum          *float64    `json:"minimum,omitempty"`
	ExclusiveMinimum interface{} `json:"exclusiveMinimum,omitempty"` // bool in OAS 2.0/3.0, number in 3.1+

	// String validation
	MaxLength *int   `json:"maxLength,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"` // e.g., "date-time", "email", "uuid"

	// Array validation
	Items       *Schema `json:"items,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Object validation
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties interface{}        `json:"additionalProperties,omitempty"` // *Schema or bool
	Required             []string           `json:"required,omitempty"`
	MaxProperties        *int               `json:"maxProperties,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`

	// Schema composition
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	// Nullability. OAS 3.0 uses the nullable flag; OAS 3.1 uses a "null"
	// entry in a type array.
	Nullable bool `json:"nullable,omitempty"`
}

// Types returns the declared type(s) as a slice. An empty slice means any
// type is allowed.
func (s *Schema) Types() []string {
	if s.Type == nil {
		return nil
	}
	switch t := s.Type.(type) {
	case string:
		return []string{t}
	case []any:
		types := make([]string, 0, len(t))
		for _, v := range t {
			if str, ok := v.(string); ok {
				types = append(types, str)
			}
		}
		return types
	case []string:
		return t
	}
	return nil
}

// IsNullable reports whether the schema allows null values, accepting both
// the OAS 3.0 nullable flag and an OAS 3.1 "null" type entry.
func (s *Schema) IsNullable() bool {
	if s.Nullable {
		return true
	}
	for _, t := range s.Types() {
		if t == "null" {
			return true
		}
	}
	return false
}

// ExclusiveMin reports whether Minimum is an exclusive bound (the OAS 2.0/3.0
// boolean form). The OAS 3.1 numeric form is exposed via ExclusiveMinBound.
func (s *Schema) ExclusiveMin() bool {
	b, ok := s.ExclusiveMinimum.(bool)
	return ok && b
}

// ExclusiveMinBound returns the OAS 3.1 numeric exclusiveMinimum bound, if set.
func (s *Schema) ExclusiveMinBound() (float64, bool) {
	f, ok := s.ExclusiveMinimum.(float64)
	return f, ok
}

// ExclusiveMax reports whether Maximum is an exclusive bound (the OAS 2.0/3.0
// boolean form). The OAS 3.1 numeric form is exposed via ExclusiveMaxBound.
func (s *Schema) ExclusiveMax() bool {
	b, ok := s.ExclusiveMaximum.(bool)
	return ok && b
}

// ExclusiveMaxBound returns the OAS 3.1 numeric exclusiveMaximum bound, if set.
func (s *Schema) ExclusiveMaxBound() (float64, bool) {
	f, ok := s.ExclusiveMaximum.(float64)
	return f, ok
}

// AdditionalAllowed reports whether properties outside Properties are allowed.
// Extra fields are permitted unless additionalProperties is explicitly false.
func (s *Schema) AdditionalAllowed() bool {
	allowed, ok := s.AdditionalProperties.(bool)
	return !ok || allowed
}
