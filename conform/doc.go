// Package conform checks canonical HTTP messages against a loaded OpenAPI document.
//
// A Validator is built once from a spec.Document and is safe for concurrent
// use. It matches the request path against the document's path templates,
// resolves the operation for the request method, and validates parameters,
// headers, and bodies against their declared schemas.
//
//	doc, _ := spec.Load("openapi.yaml")
//	v, err := conform.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := v.CheckRequest(req)
//	if !result.Valid {
//	    for _, e := range result.Errors {
//	        log.Printf("%s: %s", e.Path, e.Message)
//	    }
//	}
//
// # Path Matching
//
// Templates like "/pets/{petId}" are compiled to patterns once at construction.
// Matching prefers literal segments over templated ones and is deterministic:
// the same (document, path, method) always resolves to the same operation or
// the same error. As a convenience for validating real traffic, purely numeric
// path segments also match a literal "{id}" template segment, so "/users/42"
// matches a schema that declares "/users/{id}" without the caller supplying
// the template.
//
// # Schema Validation
//
// Bodies and parameters are validated against the JSON-Schema subset shared
// by OAS 2.0 and 3.x: types (integer as a numeric subtype), enum, numeric
// bounds (inclusive and exclusive in both the boolean and numeric forms),
// string length and pattern, array bounds with item-wise recursion, object
// required/properties/additionalProperties, and allOf/anyOf/oneOf composition.
// The engine is pure: identical inputs always produce identical results.
package conform
