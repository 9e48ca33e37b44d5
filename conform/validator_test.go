package conform

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasassert/message"
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

const storeYAML = `
openapi: "3.0.0"
info:
  title: Store
  version: "1.0"
paths:
  /pets:
    post:
      operationId: createPet
      parameters:
        - name: X-Request-Id
          in: header
          required: true
          schema:
            type: string
        - name: session
          in: cookie
          schema:
            type: string
            minLength: 8
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                tag:
                  type: string
      responses:
        "201":
          description: Created
          headers:
            Location:
              required: true
              schema:
                type: string
          content:
            application/json:
              schema:
                type: object
                required: [id, name]
                properties:
                  id:
                    type: integer
                  name:
                    type: string
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          required: true
          schema:
            type: integer
            maximum: 100
        - name: tags
          in: query
          schema:
            type: array
            items:
              type: string
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
                  required: [id, name]
                  properties:
                    id:
                      type: integer
                    name:
                      type: string
        "4XX":
          description: Client error
          content:
            application/json:
              schema:
                type: object
                required: [message]
                properties:
                  message:
                    type: string
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: object
                required: [id, name]
                properties:
                  id:
                    type: integer
                  name:
                    type: string
        default:
          description: Error
          content:
            application/json:
              schema:
                type: object
                required: [message]
                properties:
                  message:
                    type: string
`

const swaggerYAML = `
swagger: "2.0"
info:
  title: Legacy
  version: "1.0"
paths:
  /widgets:
    post:
      operationId: createWidget
      consumes: [application/json]
      parameters:
        - name: body
          in: body
          required: true
          schema:
            type: object
            required: [label]
            properties:
              label:
                type: string
      responses:
        "200":
          description: OK
          schema:
            type: object
            required: [label]
            properties:
              label:
                type: string
    get:
      operationId: listWidgets
      parameters:
        - name: count
          in: query
          type: integer
          maximum: 50
      responses:
        "200":
          description: OK
`

func loadDoc(t *testing.T, yaml string) *spec.Document {
	t.Helper()
	doc, err := spec.LoadBytes([]byte(yaml))
	require.NoError(t, err)
	return doc
}

func newValidator(t *testing.T, yaml string, opts ...Option) *Validator {
	t.Helper()
	v, err := New(loadDoc(t, yaml), opts...)
	require.NoError(t, err)
	return v
}

func jsonRequest(method, path, body string) message.Request {
	header := http.Header{}
	if body != "" {
		header.Set("Content-Type", "application/json")
	}
	header.Set("X-Request-Id", "req-1")
	return message.FromWire(method, path, header, []byte(body))
}

func jsonResponse(status int, body string) message.Response {
	header := http.Header{}
	if body != "" {
		header.Set("Content-Type", "application/json")
	}
	return message.ResponseFromWire(status, header, []byte(body))
}

func TestNewValidator(t *testing.T) {
	t.Run("nil document rejected", func(t *testing.T) {
		_, err := New(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("invalid option rejected", func(t *testing.T) {
		_, err := New(loadDoc(t, storeYAML), WithMaxBodySize(-1))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}

func TestCheckRequest(t *testing.T) {
	v := newValidator(t, storeYAML)

	t.Run("valid request passes", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/pets", `{"name":"Rex","tag":"dog"}`))
		assert.True(t, result.Valid, result.Summary())
		assert.Equal(t, "/pets", result.MatchedPath)
		assert.Equal(t, "POST", result.MatchedMethod)
	})

	t.Run("missing required body field names the field", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/pets", `{"tag":"dog"}`))
		require.False(t, result.Valid)
		assert.Equal(t, "body.name", result.Errors[0].Path)
		assert.Contains(t, result.Errors[0].Message, `"name"`)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/pets", `{"name":`))
		require.False(t, result.Valid)
		assert.Contains(t, result.FirstError(), "body decode error")
	})

	t.Run("missing required body", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/pets", ""))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), "request body is required")
	})

	t.Run("unknown path reports OperationNotFound", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/unknown", ""))
		require.False(t, result.Valid)
		assert.ErrorIs(t, result.MatchErr, oaserrors.ErrOperationNotFound)
	})

	t.Run("undeclared method reports MethodNotAllowed", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("DELETE", "/pets", ""))
		require.False(t, result.Valid)
		assert.ErrorIs(t, result.MatchErr, oaserrors.ErrMethodNotAllowed)
	})

	t.Run("numeric path segment matches id template", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets/123", ""))
		assert.True(t, result.Valid, result.Summary())
		assert.Equal(t, "/pets/{id}", result.MatchedPath)
		assert.Equal(t, "123", result.PathParams["id"])
	})

	t.Run("non-integer path param rejected", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets/abc", ""))
		require.False(t, result.Valid)
		assert.Equal(t, "path.id", result.Errors[0].Path)
	})

	t.Run("missing required query parameter", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets", ""))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), `required query parameter "limit"`)
	})

	t.Run("query parameter constraint", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets?limit=500", ""))
		require.False(t, result.Valid)
		assert.Equal(t, "query.limit", result.Errors[0].Path)
		assert.Contains(t, result.Errors[0].Message, "exceeds maximum 100")
	})

	t.Run("repeated query parameter as array", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets?limit=10&tags=a&tags=b", ""))
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("missing required header", func(t *testing.T) {
		req := message.FromWire("POST", "/pets", http.Header{
			"Content-Type": {"application/json"},
		}, []byte(`{"name":"Rex"}`))
		result := v.CheckRequest(req)
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), `required header parameter "X-Request-Id"`)
	})

	t.Run("cookie constraint violation is redacted", func(t *testing.T) {
		header := http.Header{
			"Content-Type": {"application/json"},
			"X-Request-Id": {"req-1"},
		}
		header.Set("Cookie", (&http.Cookie{Name: "session", Value: "short"}).String())
		req := message.FromWire("POST", "/pets", header, []byte(`{"name":"Rex"}`))

		result := v.CheckRequest(req)
		require.False(t, result.Valid)
		assert.Equal(t, "cookie.session", result.Errors[0].Path)
	})

	t.Run("undeclared body tolerated by default", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/pets/1", `{"stray":true}`))
		assert.True(t, result.Valid, result.Summary())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("undeclared body rejected when configured", func(t *testing.T) {
		strict := newValidator(t, storeYAML, WithRejectUndeclaredBody(true))
		result := strict.CheckRequest(jsonRequest("GET", "/pets/1", `{"stray":true}`))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), "declares none")
	})

	t.Run("strict mode rejects unknown query parameters", func(t *testing.T) {
		strict := newValidator(t, storeYAML, WithStrictMode(true))
		result := strict.CheckRequest(jsonRequest("GET", "/pets?limit=10&mystery=1", ""))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), `unknown query parameter "mystery"`)
	})

	t.Run("oversized body skipped with warning", func(t *testing.T) {
		small := newValidator(t, storeYAML, WithMaxBodySize(4))
		result := small.CheckRequest(jsonRequest("POST", "/pets", `{"name":"Rex"}`))
		assert.True(t, result.Valid, result.Summary())
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0].Message, "byte limit")
	})
}

func TestCheckResponse(t *testing.T) {
	v := newValidator(t, storeYAML)

	t.Run("valid response passes", func(t *testing.T) {
		resp := jsonResponse(201, `{"id":1,"name":"Rex"}`)
		resp.Header.Set("Location", "/pets/1")
		result := v.CheckResponse(jsonRequest("POST", "/pets", `{"name":"Rex"}`), resp)
		assert.True(t, result.Valid, result.Summary())
		assert.Equal(t, 201, result.StatusCode)
	})

	t.Run("missing required response field", func(t *testing.T) {
		resp := jsonResponse(201, `{"id":1}`)
		resp.Header.Set("Location", "/pets/1")
		result := v.CheckResponse(jsonRequest("POST", "/pets", `{"name":"Rex"}`), resp)
		require.False(t, result.Valid)
		assert.Equal(t, "response.body.name", result.Errors[0].Path)
	})

	t.Run("wrong response field type names the path", func(t *testing.T) {
		resp := jsonResponse(201, `{"id":"seven","name":"Rex"}`)
		resp.Header.Set("Location", "/pets/1")
		result := v.CheckResponse(jsonRequest("POST", "/pets", `{"name":"Rex"}`), resp)
		require.False(t, result.Valid)
		assert.Equal(t, "response.body.id", result.Errors[0].Path)
		assert.Contains(t, result.Errors[0].Message, "expected type integer")
	})

	t.Run("missing required response header", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("POST", "/pets", `{"name":"Rex"}`),
			jsonResponse(201, `{"id":1,"name":"Rex"}`))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), `required response header "Location"`)
	})

	t.Run("undocumented status is an error", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("POST", "/pets", `{"name":"Rex"}`),
			jsonResponse(204, ""))
		require.False(t, result.Valid)
		require.Error(t, result.MatchErr)
		assert.ErrorIs(t, result.MatchErr, oaserrors.ErrResponseSpecNotFound)

		var notFound *oaserrors.ResponseSpecNotFoundError
		require.True(t, errors.As(result.MatchErr, &notFound))
		assert.Equal(t, 204, notFound.StatusCode)
	})

	t.Run("wildcard class matches 404", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("GET", "/pets?limit=10", ""),
			jsonResponse(404, `{"message":"not found"}`))
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("wildcard schema still enforced", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("GET", "/pets?limit=10", ""),
			jsonResponse(404, `{}`))
		require.False(t, result.Valid)
		assert.Equal(t, "response.body.message", result.Errors[0].Path)
	})

	t.Run("default entry is the fallback", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("GET", "/pets/1", ""),
			jsonResponse(500, `{"message":"boom"}`))
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("empty body with declared schema is an error", func(t *testing.T) {
		resp := jsonResponse(201, "")
		resp.Header.Set("Location", "/pets/1")
		result := v.CheckResponse(jsonRequest("POST", "/pets", `{"name":"Rex"}`), resp)
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), "response body is empty")
	})

	t.Run("malformed JSON response body", func(t *testing.T) {
		resp := jsonResponse(201, `{"id":`)
		resp.Header.Set("Location", "/pets/1")
		result := v.CheckResponse(jsonRequest("POST", "/pets", `{"name":"Rex"}`), resp)
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), "body decode error")
	})

	t.Run("match failure propagates to response check", func(t *testing.T) {
		result := v.CheckResponse(jsonRequest("GET", "/unknown", ""), jsonResponse(200, `{}`))
		require.False(t, result.Valid)
		assert.ErrorIs(t, result.MatchErr, oaserrors.ErrOperationNotFound)
	})
}

func TestCheckRequestOAS2(t *testing.T) {
	v := newValidator(t, swaggerYAML)

	t.Run("body parameter enforced", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/widgets", `{"label":"a"}`))
		assert.True(t, result.Valid, result.Summary())

		result = v.CheckRequest(jsonRequest("POST", "/widgets", `{}`))
		require.False(t, result.Valid)
		assert.Equal(t, "body.label", result.Errors[0].Path)
	})

	t.Run("required body parameter missing", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("POST", "/widgets", ""))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), "request body is required")
	})

	t.Run("inline query constraints lifted", func(t *testing.T) {
		result := v.CheckRequest(jsonRequest("GET", "/widgets?count=10", ""))
		assert.True(t, result.Valid, result.Summary())

		result = v.CheckRequest(jsonRequest("GET", "/widgets?count=99", ""))
		require.False(t, result.Valid)
		assert.Equal(t, "query.count", result.Errors[0].Path)
	})

	t.Run("inline response schema enforced", func(t *testing.T) {
		result := v.CheckResponse(
			jsonRequest("GET", "/widgets", ""),
			jsonResponse(200, `{"nope":1}`))
		require.False(t, result.Valid)
		assert.Equal(t, "response.body.label", result.Errors[0].Path)
	})
}

func TestFormBody(t *testing.T) {
	const formYAML = `
swagger: "2.0"
info:
  title: Forms
  version: "1.0"
paths:
  /login:
    post:
      consumes: [application/x-www-form-urlencoded]
      parameters:
        - name: username
          in: formData
          required: true
          type: string
        - name: attempts
          in: formData
          type: integer
          maximum: 3
      responses:
        "200":
          description: OK
`
	v := newValidator(t, formYAML)

	formRequest := func(form url.Values) message.Request {
		header := http.Header{}
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		return message.FromWire("POST", "/login", header, []byte(form.Encode()))
	}

	t.Run("valid form", func(t *testing.T) {
		result := v.CheckRequest(formRequest(url.Values{"username": {"alice"}, "attempts": {"2"}}))
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("missing required field", func(t *testing.T) {
		result := v.CheckRequest(formRequest(url.Values{"attempts": {"2"}}))
		require.False(t, result.Valid)
		assert.Contains(t, result.Summary(), `required form field "username"`)
	})

	t.Run("field constraint", func(t *testing.T) {
		result := v.CheckRequest(formRequest(url.Values{"username": {"alice"}, "attempts": {"9"}}))
		require.False(t, result.Valid)
		assert.Equal(t, "body.attempts", result.Errors[0].Path)
	})
}
