package capture

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/erraggy/oasassert/message"
)

// Recorder is an http.RoundTripper that records the most recent exchange
// passing through it. Bodies are buffered and restored, so neither the
// transport nor the caller observes a difference.
//
// A Recorder satisfies Source and is safe for concurrent use; under parallel
// requests "last" means the exchange whose response arrived most recently.
type Recorder struct {
	next http.RoundTripper

	mu       sync.Mutex
	request  message.Request
	response message.Response
	captured bool
}

// NewRecorder creates a Recorder wrapping next. A nil next uses
// http.DefaultTransport.
func NewRecorder(next http.RoundTripper) *Recorder {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Recorder{next: next}
}

// Client returns an *http.Client whose transport is this Recorder.
func (r *Recorder) Client() *http.Client {
	return &http.Client{Transport: r}
}

// RoundTrip implements http.RoundTripper, forwarding the request to the
// wrapped transport and recording both sides of the exchange.
func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		reqBody, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if closeErr := req.Body.Close(); closeErr != nil {
			return nil, closeErr
		}
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	var respBody []byte
	if resp.Body != nil {
		respBody, err = io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
	}

	r.mu.Lock()
	r.request = message.FromWire(req.Method, req.URL.String(), req.Header, reqBody)
	r.response = message.ResponseFromWire(resp.StatusCode, resp.Header, respBody)
	r.captured = true
	r.mu.Unlock()

	return resp, nil
}

// LastRequest returns the most recently recorded request.
func (r *Recorder) LastRequest() (message.Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.request, r.captured
}

// LastResponse returns the most recently recorded response.
func (r *Recorder) LastResponse() (message.Response, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.response, r.captured
}

// Reset clears any recorded exchange.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.request = message.Request{}
	r.response = message.Response{}
	r.captured = false
}
