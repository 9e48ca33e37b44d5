package message

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasassert/oaserrors"
)

func TestFromWire(t *testing.T) {
	t.Run("splits path and query from relative URI", func(t *testing.T) {
		req := FromWire("get", "/pets/7?verbose=true&tag=a&tag=b", nil, nil)
		assert.Equal(t, "GET", req.Method)
		assert.Equal(t, "/pets/7", req.Path)
		assert.Equal(t, "true", req.Query.Get("verbose"))
		assert.Equal(t, []string{"a", "b"}, req.Query["tag"])
	})

	t.Run("accepts absolute URI", func(t *testing.T) {
		req := FromWire("POST", "https://api.example.com/orders?dry=1", nil, nil)
		assert.Equal(t, "/orders", req.Path)
		assert.Equal(t, "1", req.Query.Get("dry"))
	})

	t.Run("empty path becomes root", func(t *testing.T) {
		req := FromWire("GET", "https://api.example.com", nil, nil)
		assert.Equal(t, "/", req.Path)
	})

	t.Run("canonicalizes header keys", func(t *testing.T) {
		header := http.Header{"content-type": {"application/json"}}
		req := FromWire("GET", "/x", header, nil)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	})
}

func TestFromHTTPRequest(t *testing.T) {
	body := []byte(`{"name":"Rex"}`)
	r := httptest.NewRequest("POST", "/pets?notify=1", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	req, err := FromHTTPRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/pets", req.Path)
	assert.Equal(t, "1", req.Query.Get("notify"))
	assert.Equal(t, body, req.Body)
}

func TestFromHTTPResponse(t *testing.T) {
	r := &http.Response{
		StatusCode: 201,
		Header:     http.Header{"Content-Type": {"application/json; charset=utf-8"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"id":7}`))),
	}

	resp, err := FromHTTPResponse(r)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType())
	assert.True(t, resp.HasBody())
}

func TestDecodeBody(t *testing.T) {
	t.Run("decodes JSON object", func(t *testing.T) {
		req := FromWire("POST", "/pets", http.Header{"Content-Type": {"application/json"}}, []byte(`{"id": 7, "name": "Rex"}`))
		data, err := req.DecodeBody()
		require.NoError(t, err)
		obj, ok := data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Rex", obj["name"])
	})

	t.Run("decodes structured suffix types", func(t *testing.T) {
		resp := ResponseFromWire(400, http.Header{"Content-Type": {"application/problem+json"}}, []byte(`{"title":"oops"}`))
		data, err := resp.DecodeBody()
		require.NoError(t, err)
		assert.IsType(t, map[string]any{}, data)
	})

	t.Run("malformed JSON is a body decode error", func(t *testing.T) {
		req := FromWire("POST", "/pets", http.Header{"Content-Type": {"application/json"}}, []byte(`{"id":`))
		_, err := req.DecodeBody()
		require.ErrorIs(t, err, oaserrors.ErrBodyDecode)

		var decodeErr *oaserrors.BodyDecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "application/json", decodeErr.ContentType)
	})

	t.Run("non-JSON body stays raw", func(t *testing.T) {
		req := FromWire("POST", "/notes", http.Header{"Content-Type": {"text/plain"}}, []byte("hello"))
		data, err := req.DecodeBody()
		require.NoError(t, err)
		assert.Equal(t, "hello", data)
	})

	t.Run("empty body decodes to nil", func(t *testing.T) {
		req := FromWire("GET", "/pets", nil, nil)
		data, err := req.DecodeBody()
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.False(t, req.HasBody())
	})
}
