// Package oasassert validates captured HTTP traffic against OpenAPI Specification (OAS) documents.
//
// oasassert is a test-support library: it records the HTTP requests and responses a
// system under test exchanges, and asserts that the most recent request/response pair
// conforms to an OpenAPI 2.0 (Swagger) or 3.x document.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - spec: Load OpenAPI documents (JSON or YAML) into an immutable model
//   - conform: Match operations and validate messages against the loaded document
//   - message: Canonical request/response representation used for validation
//   - capture: Record HTTP traffic via an http.RoundTripper
//   - assertions: Test assertions over the last captured request/response pair
//
// # Quick Start
//
// Record traffic and assert conformance in a test:
//
//	rec := capture.NewRecorder(nil)
//	client := rec.Client()
//
//	sut, err := assertions.New(rec, assertions.WithSchemaPath("testdata/petstore.yaml"))
//	if err != nil {
//		t.Fatal(err)
//	}
//
//	client.Get(server.URL + "/pets/7")
//	sut.RequestAndResponseAreValid(t)
//
// Or validate messages directly without the assertion layer:
//
//	doc, err := spec.Load("petstore.yaml")
//	v, err := conform.New(doc)
//	result := v.CheckRequest(req)
//	if !result.Valid {
//		for _, e := range result.Errors {
//			log.Printf("%s: %s", e.Path, e.Message)
//		}
//	}
//
// # Schema Support
//
// Both OAS 2.0 and OAS 3.x documents are supported, in JSON or YAML, with local
// $ref resolution performed once at load time. The loaded document is immutable
// and safe for concurrent use from parallel tests.
package oasassert
