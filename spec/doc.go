// Package spec loads OpenAPI Specification documents into an immutable in-memory model.
//
// The loader accepts both OAS 2.0 (Swagger) and OAS 3.x documents, in JSON or
// YAML. Format is detected from the file extension (.yaml/.yml selects the
// YAML parser, everything else the JSON parser); LoadBytes sniffs the content
// instead.
//
// Local $ref pointers (#/...) are resolved once at load time, so the resulting
// Document is tree-shaped: consumers never see a $ref. Dangling or circular
// references fail the load with a *oaserrors.SchemaError. Remote and file
// references are not supported and also fail the load.
//
// # Usage
//
//	doc, err := spec.Load("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(doc.Version())
//
// # Immutability
//
// A Document is read-only after Load returns. It is shared freely across
// concurrent conformance checks without locking; callers must not modify it.
package spec
