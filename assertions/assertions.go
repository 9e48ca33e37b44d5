// Package assertions exposes test assertions that validate the most recently
// captured HTTP exchange against an OpenAPI document.
//
// Typical usage wires a capture.Recorder into the client under test and
// asserts after each call:
//
//	rec := capture.NewRecorder(nil)
//	client := rec.Client()
//
//	sut, err := assertions.New(rec, assertions.WithSchemaPath("openapi.yaml"))
//	if err != nil {
//	    t.Fatal(err)
//	}
//
//	client.Get(server.URL + "/pets/1")
//	sut.RequestAndResponseAreValid(t)
package assertions

import (
	"github.com/erraggy/oasassert/capture"
	"github.com/erraggy/oasassert/conform"
	"github.com/erraggy/oasassert/oaserrors"
)

// TestingT is the subset of *testing.T the assertions need. It matches
// testify's require.TestingT so both *testing.T and *testing.B satisfy it.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

// Assertions validates captured HTTP exchanges against a loaded OpenAPI
// document. Construct with New; the zero value is not usable.
//
// An Assertions value is safe for concurrent use.
type Assertions struct {
	source    capture.Source
	validator *conform.Validator
}

// New creates an Assertions bound to a capture source. The OpenAPI document
// is selected with WithSchemaPath or WithDocument and loaded exactly once;
// a missing or malformed document fails here, not at assertion time.
func New(source capture.Source, opts ...Option) (*Assertions, error) {
	if source == nil {
		return nil, &oaserrors.ConfigError{Message: "capture source cannot be nil"}
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	doc, err := cfg.document()
	if err != nil {
		return nil, err
	}

	validator, err := conform.New(doc, cfg.conformOpts...)
	if err != nil {
		return nil, err
	}

	return &Assertions{source: source, validator: validator}, nil
}

// Validator returns the underlying conform.Validator, for callers that want
// full Result detail rather than pass/fail.
func (a *Assertions) Validator() *conform.Validator {
	return a.validator
}

// RequestIsValid asserts that the most recently captured request conforms to
// the document. The test fails with the most specific diagnostic available.
func (a *Assertions) RequestIsValid(t TestingT) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if err := a.CheckRequest(); err != nil {
		fail(t, "request conformance: %s", err)
		return false
	}
	return true
}

// ResponseIsValid asserts that the most recently captured response conforms
// to the document.
func (a *Assertions) ResponseIsValid(t TestingT) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if err := a.CheckResponse(); err != nil {
		fail(t, "response conformance: %s", err)
		return false
	}
	return true
}

// RequestAndResponseAreValid asserts both directions of the captured
// exchange. A request failure short-circuits: the response is not checked,
// since its operation match would repeat the same failure.
func (a *Assertions) RequestAndResponseAreValid(t TestingT) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if err := a.CheckRequestAndResponse(); err != nil {
		fail(t, "exchange conformance: %s", err)
		return false
	}
	return true
}

// CheckRequest validates the captured request and returns the failure as an
// error instead of failing a test. Conformance violations come back as a
// *oaserrors.ConformanceError carrying the full issue list; match failures
// keep their own types (OperationNotFoundError, MethodNotAllowedError).
func (a *Assertions) CheckRequest() error {
	req, ok := a.source.LastRequest()
	if !ok {
		return &oaserrors.ConfigError{Message: "no request has been captured"}
	}
	return resultError("request", a.validator.CheckRequest(req))
}

// CheckResponse validates the captured response, using the captured request
// to locate the operation.
func (a *Assertions) CheckResponse() error {
	req, ok := a.source.LastRequest()
	if !ok {
		return &oaserrors.ConfigError{Message: "no request has been captured"}
	}
	resp, ok := a.source.LastResponse()
	if !ok {
		return &oaserrors.ConfigError{Message: "no response has been captured"}
	}
	return resultError("response", a.validator.CheckResponse(req, resp))
}

// CheckRequestAndResponse validates both directions, stopping after a
// request failure.
func (a *Assertions) CheckRequestAndResponse() error {
	if err := a.CheckRequest(); err != nil {
		return err
	}
	return a.CheckResponse()
}

// resultError converts a failed Result into the appropriate error: the typed
// match error when one occurred, otherwise a ConformanceError with every
// violation.
func resultError(subject string, result *conform.Result) error {
	if result.Valid {
		return nil
	}
	if result.MatchErr != nil {
		return result.MatchErr
	}
	return &oaserrors.ConformanceError{
		Subject:    subject,
		Violations: result.Violations(),
	}
}

func fail(t TestingT, format string, args ...any) {
	t.Errorf(format, args...)
	t.FailNow()
}
