// Package message provides the canonical HTTP message representation consumed
// by the conformance checkers.
//
// The adapter converts captured wire-level requests and responses (method,
// URI, header multimap, raw body bytes, status code) into a normalized form:
// path and query split out, headers canonicalized, and JSON bodies decodable
// on demand.
package message

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasassert/internal/httputil"
	"github.com/erraggy/oasassert/oaserrors"
)

// Request is the canonical representation of a captured HTTP request.
type Request struct {
	// Method is the HTTP method, upper case.
	Method string
	// Path is the URL path component (no query string, no host).
	Path string
	// Query holds the parsed query parameters; keys may repeat.
	Query url.Values
	// Header holds the request headers with canonicalized keys.
	Header http.Header
	// Body is the raw captured body. Nil or empty means no body.
	Body []byte
}

// Response is the canonical representation of a captured HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers with canonicalized keys.
	Header http.Header
	// Body is the raw captured body. Nil or empty means no body.
	Body []byte
}

// FromWire builds a canonical request from captured wire-level parts.
// The URI may be absolute or relative; only path and query are retained.
// A malformed URI yields a request whose Path is the raw input, so matching
// can still report a useful diagnostic.
func FromWire(method, uri string, header http.Header, body []byte) Request {
	req := Request{
		Method: strings.ToUpper(method),
		Header: canonicalHeader(header),
		Body:   body,
		Query:  url.Values{},
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		req.Path = uri
		return req
	}
	req.Path = parsed.Path
	if req.Path == "" {
		req.Path = "/"
	}
	req.Query = parsed.Query()
	return req
}

// FromHTTPRequest builds a canonical request from an *http.Request,
// consuming and re-buffering the body if present.
func FromHTTPRequest(r *http.Request) (Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return Request{}, err
		}
	}
	return FromWire(r.Method, r.URL.String(), r.Header, body), nil
}

// ResponseFromWire builds a canonical response from captured wire-level parts.
func ResponseFromWire(statusCode int, header http.Header, body []byte) Response {
	return Response{
		StatusCode: statusCode,
		Header:     canonicalHeader(header),
		Body:       body,
	}
}

// FromHTTPResponse builds a canonical response from an *http.Response,
// consuming and re-buffering the body if present.
func FromHTTPResponse(r *http.Response) (Response, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return Response{}, err
		}
	}
	return ResponseFromWire(r.StatusCode, r.Header, body), nil
}

// ContentType returns the media type of the request body, without parameters.
func (r Request) ContentType() string {
	return mediaType(r.Header)
}

// DecodeBody parses the request body according to its content type.
// JSON bodies decode to a structured value; malformed JSON yields a
// *oaserrors.BodyDecodeError. Non-JSON bodies are returned as raw strings.
// An empty body decodes to nil.
func (r Request) DecodeBody() (any, error) {
	return decodeBody(r.Body, r.ContentType())
}

// HasBody reports whether the request carries a non-empty body.
func (r Request) HasBody() bool {
	return len(r.Body) > 0
}

// ContentType returns the media type of the response body, without parameters.
func (r Response) ContentType() string {
	return mediaType(r.Header)
}

// DecodeBody parses the response body according to its content type.
// Semantics match Request.DecodeBody.
func (r Response) DecodeBody() (any, error) {
	return decodeBody(r.Body, r.ContentType())
}

// HasBody reports whether the response carries a non-empty body.
func (r Response) HasBody() bool {
	return len(r.Body) > 0
}

func decodeBody(body []byte, contentType string) (any, error) {
	if len(body) == 0 {
		return nil, nil
	}

	if httputil.IsJSONMediaType(contentType) {
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, &oaserrors.BodyDecodeError{ContentType: contentType, Cause: err}
		}
		return data, nil
	}

	return string(body), nil
}

func mediaType(header http.Header) string {
	ct := header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return parsed
}

func canonicalHeader(header http.Header) http.Header {
	out := make(http.Header, len(header))
	for key, values := range header {
		canonical := http.CanonicalHeaderKey(key)
		out[canonical] = append(out[canonical], values...)
	}
	return out
}
