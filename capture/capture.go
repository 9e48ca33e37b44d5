// Package capture records HTTP traffic for later conformance assertions.
//
// The assertions layer consumes any Source of the most recently captured
// request/response pair. Recorder is the standard implementation: it wraps an
// http.RoundTripper and stores each exchange as it happens, so the client
// under test needs no other instrumentation.
package capture

import "github.com/erraggy/oasassert/message"

// Source exposes the most recently captured HTTP exchange.
//
// Implementations must be safe for concurrent use. The boolean results report
// whether anything has been captured yet.
type Source interface {
	// LastRequest returns the most recently captured request.
	LastRequest() (message.Request, bool)
	// LastResponse returns the most recently captured response.
	LastResponse() (message.Response, bool)
}

// Static is a Source holding fixed request/response values. It is useful in
// tests and for replaying recorded transcripts.
type Static struct {
	// Request is the captured request; ignored unless HasRequest is true.
	Request message.Request
	// HasRequest reports whether Request is populated.
	HasRequest bool
	// Response is the captured response; ignored unless HasResponse is true.
	Response message.Response
	// HasResponse reports whether Response is populated.
	HasResponse bool
}

// LastRequest returns the fixed request.
func (s Static) LastRequest() (message.Request, bool) {
	return s.Request, s.HasRequest
}

// LastResponse returns the fixed response.
func (s Static) LastResponse() (message.Response, bool) {
	return s.Response, s.HasResponse
}
