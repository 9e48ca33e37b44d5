package spec

import (
	"strings"

	"github.com/goccy/go-json"
)

// Document is the root of a loaded OpenAPI specification.
// Exactly one of OpenAPI (3.x) or Swagger (2.0) is set.
type Document struct {
	OpenAPI string              `json:"openapi,omitempty"`
	Swagger string              `json:"swagger,omitempty"`
	Info    *Info               `json:"info,omitempty"`
	Paths   map[string]*PathItem `json:"paths"`
}

// Info holds document metadata.
type Info struct {
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// Version returns the declared OAS version string (e.g. "2.0", "3.0.3").
func (d *Document) Version() string {
	if d.OpenAPI != "" {
		return d.OpenAPI
	}
	return d.Swagger
}

// IsOAS3 reports whether the document declares OpenAPI 3.x.
func (d *Document) IsOAS3() bool {
	return d.OpenAPI != ""
}

// PathTemplates returns all declared path templates, in unspecified order.
func (d *Document) PathTemplates() []string {
	templates := make([]string, 0, len(d.Paths))
	for t := range d.Paths {
		templates = append(templates, t)
	}
	return templates
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Get        *Operation   `json:"get,omitempty"`
	Put        *Operation   `json:"put,omitempty"`
	Post       *Operation   `json:"post,omitempty"`
	Delete     *Operation   `json:"delete,omitempty"`
	Options    *Operation   `json:"options,omitempty"`
	Head       *Operation   `json:"head,omitempty"`
	Patch      *Operation   `json:"patch,omitempty"`
	Trace      *Operation   `json:"trace,omitempty"` // OAS 3.0+
	Parameters []*Parameter `json:"parameters,omitempty"`
}

// Operation returns the operation declared for the given HTTP method,
// or nil if the method is not declared. Method matching is case-insensitive.
func (p *PathItem) Operation(method string) *Operation {
	switch strings.ToLower(method) {
	case "get":
		return p.Get
	case "put":
		return p.Put
	case "post":
		return p.Post
	case "delete":
		return p.Delete
	case "options":
		return p.Options
	case "head":
		return p.Head
	case "patch":
		return p.Patch
	case "trace":
		return p.Trace
	default:
		return nil
	}
}

// Operation describes a single API operation on a path.
type Operation struct {
	OperationID string       `json:"operationId,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"` // OAS 3.0+
	Responses   *Responses   `json:"responses,omitempty"`
	Consumes    []string     `json:"consumes,omitempty"` // OAS 2.0
	Produces    []string     `json:"produces,omitempty"` // OAS 2.0
	Deprecated  bool         `json:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name            string  `json:"name,omitempty"`
	In              string  `json:"in,omitempty"` // "query", "header", "path", "cookie" (OAS 3.0+), "formData", "body" (OAS 2.0)
	Required        bool    `json:"required,omitempty"`
	AllowEmptyValue bool    `json:"allowEmptyValue,omitempty"`
	Schema          *Schema `json:"schema,omitempty"`
	Style           string  `json:"style,omitempty"`   // OAS 3.0+
	Explode         *bool   `json:"explode,omitempty"` // OAS 3.0+

	// OAS 2.0 inline schema fields (non-body parameters)
	Type             string   `json:"type,omitempty"`
	Format           string   `json:"format,omitempty"`
	Enum             []any    `json:"enum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	MinLength        *int     `json:"minLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
}

// EffectiveSchema returns the constraint schema for this parameter.
// OAS 3.x parameters carry an explicit schema; OAS 2.0 non-body parameters
// describe constraints inline, which this method lifts into a Schema so the
// engine only deals with one shape.
func (p *Parameter) EffectiveSchema() *Schema {
	if p.Schema != nil {
		return p.Schema
	}
	if p.Type == "" && len(p.Enum) == 0 {
		return nil
	}
	s := &Schema{
		Format:      p.Format,
		Enum:        p.Enum,
		Maximum:     p.Maximum,
		Minimum:     p.Minimum,
		MaxLength:   p.MaxLength,
		MinLength:   p.MinLength,
		Pattern:     p.Pattern,
		MaxItems:    p.MaxItems,
		MinItems:    p.MinItems,
		UniqueItems: p.UniqueItems,
		MultipleOf:  p.MultipleOf,
	}
	if p.Type != "" {
		s.Type = p.Type
	}
	if p.ExclusiveMaximum {
		s.ExclusiveMaximum = true
	}
	if p.ExclusiveMinimum {
		s.ExclusiveMinimum = true
	}
	return s
}

// RequestBody describes a request body (OAS 3.0+).
type RequestBody struct {
	Content  map[string]*MediaType `json:"content,omitempty"`
	Required bool                  `json:"required,omitempty"`
}

// MediaType describes the schema for one media type of a body.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Responses is a container for the expected responses of an operation.
// Codes maps status-code patterns (exact codes or wildcard classes like "2XX")
// to their response specifications.
type Responses struct {
	Default *Response
	Codes   map[string]*Response
}

// UnmarshalJSON splits the "default" entry from the status-code entries.
func (r *Responses) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response, len(raw))
	for key, value := range raw {
		// Specification extensions live alongside status codes; skip them.
		if strings.HasPrefix(key, "x-") {
			continue
		}
		var resp Response
		if err := json.Unmarshal(value, &resp); err != nil {
			return err
		}
		if key == "default" {
			r.Default = &resp
			continue
		}
		r.Codes[key] = &resp
	}
	return nil
}

// MarshalJSON re-inlines the default entry next to the status codes.
func (r *Responses) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Response, len(r.Codes)+1)
	for key, resp := range r.Codes {
		out[key] = resp
	}
	if r.Default != nil {
		out["default"] = r.Default
	}
	return json.Marshal(out)
}

// Response describes a single response of an operation.
type Response struct {
	Description string                `json:"description,omitempty"`
	Headers     map[string]*Header    `json:"headers,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"` // OAS 3.0+
	Schema      *Schema               `json:"schema,omitempty"`  // OAS 2.0
}

// Header describes a response header.
type Header struct {
	Required bool    `json:"required,omitempty"`
	Schema   *Schema `json:"schema,omitempty"` // OAS 3.0+

	// OAS 2.0 inline fields
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Enum    []any  `json:"enum,omitempty"`
}

// EffectiveSchema returns the constraint schema for this header, lifting
// OAS 2.0 inline fields into a Schema when no explicit one is present.
func (h *Header) EffectiveSchema() *Schema {
	if h.Schema != nil {
		return h.Schema
	}
	if h.Type == "" && len(h.Enum) == 0 {
		return nil
	}
	s := &Schema{Format: h.Format, Pattern: h.Pattern, Enum: h.Enum}
	if h.Type != "" {
		s.Type = h.Type
	}
	return s
}
