package spec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasassert/oaserrors"
)

const petstoreYAML = `
openapi: "3.0.0"
info:
  title: Petstore
  version: "1.0"
paths:
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
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        id:
          type: integer
        name:
          type: string
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads YAML by extension", func(t *testing.T) {
		doc, err := Load(writeTemp(t, "api.yaml", petstoreYAML))
		require.NoError(t, err)
		assert.True(t, doc.IsOAS3())
		assert.Equal(t, "3.0.0", doc.Version())
		require.Contains(t, doc.Paths, "/pets/{id}")
	})

	t.Run("loads JSON by extension", func(t *testing.T) {
		doc, err := Load(writeTemp(t, "api.json", `{
			"openapi": "3.0.0",
			"info": {"title": "t", "version": "1"},
			"paths": {"/pets": {"get": {"responses": {"200": {"description": "OK"}}}}}
		}`))
		require.NoError(t, err)
		require.Contains(t, doc.Paths, "/pets")
		assert.NotNil(t, doc.Paths["/pets"].Get)
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("invalid YAML is a schema error", func(t *testing.T) {
		_, err := Load(writeTemp(t, "bad.yaml", "openapi: [unterminated"))
		assert.ErrorIs(t, err, oaserrors.ErrSchema)
	})

	t.Run("missing paths is a schema error", func(t *testing.T) {
		_, err := Load(writeTemp(t, "nopaths.yaml", "openapi: \"3.0.0\"\ninfo: {title: t, version: \"1\"}\n"))
		require.ErrorIs(t, err, oaserrors.ErrSchema)
		assert.Contains(t, err.Error(), "paths")
	})

	t.Run("missing version declaration is a schema error", func(t *testing.T) {
		_, err := Load(writeTemp(t, "nover.yaml", "paths: {}\n"))
		require.ErrorIs(t, err, oaserrors.ErrSchema)
		assert.Contains(t, err.Error(), "version")
	})
}

func TestLoadBytes(t *testing.T) {
	t.Run("sniffs JSON from leading brace", func(t *testing.T) {
		doc, err := LoadBytes([]byte(`  {"swagger": "2.0", "info": {"title": "t", "version": "1"}, "paths": {}}`))
		require.NoError(t, err)
		assert.False(t, doc.IsOAS3())
		assert.Equal(t, "2.0", doc.Version())
	})

	t.Run("defaults to YAML", func(t *testing.T) {
		doc, err := LoadBytes([]byte(petstoreYAML))
		require.NoError(t, err)
		assert.True(t, doc.IsOAS3())
	})
}

func TestRefResolution(t *testing.T) {
	t.Run("inlines local refs", func(t *testing.T) {
		doc, err := LoadBytes([]byte(petstoreYAML))
		require.NoError(t, err)

		resp := doc.Paths["/pets/{id}"].Get.Responses.Codes["200"]
		require.NotNil(t, resp)
		schema := resp.Content["application/json"].Schema
		require.NotNil(t, schema)
		assert.Equal(t, []string{"object"}, schema.Types())
		assert.Equal(t, []string{"name"}, schema.Required)
		require.Contains(t, schema.Properties, "id")
	})

	t.Run("dangling ref fails", func(t *testing.T) {
		_, err := LoadBytes([]byte(`
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /x:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Missing"
`))
		require.ErrorIs(t, err, oaserrors.ErrSchema)
		assert.Contains(t, err.Error(), "dangling")
	})

	t.Run("circular ref fails", func(t *testing.T) {
		_, err := LoadBytes([]byte(`
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /x:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Node"
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: "#/components/schemas/Node"
`))
		require.ErrorIs(t, err, oaserrors.ErrSchema)

		var schemaErr *oaserrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, schemaErr.IsCircular)
	})

	t.Run("remote ref fails", func(t *testing.T) {
		_, err := LoadBytes([]byte(`
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /x:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "https://example.com/schema.json#/Pet"
`))
		require.ErrorIs(t, err, oaserrors.ErrSchema)
		assert.Contains(t, err.Error(), "local")
	})
}

func TestLoadDeterminism(t *testing.T) {
	// Loading the same document twice yields structurally equal models.
	a, err := LoadBytes([]byte(petstoreYAML))
	require.NoError(t, err)
	b, err := LoadBytes([]byte(petstoreYAML))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadYAMLNumericKeys(t *testing.T) {
	// Unquoted status-code keys decode as non-string map keys in YAML.
	const yml = `
openapi: "3.0.0"
info:
  title: T
  version: "1"
paths:
  /pets/{id}:
    get:
      responses:
        200:
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
        404:
          description: Not Found
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
`
	doc, err := LoadBytes([]byte(yml))
	require.NoError(t, err)

	op := doc.Paths["/pets/{id}"].Get
	require.NotNil(t, op)
	require.NotNil(t, op.Responses)
	require.Contains(t, op.Responses.Codes, "200")
	assert.Contains(t, op.Responses.Codes, "404")

	// The $ref under the numeric key must still be resolved.
	schema := op.Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Equal(t, []string{"name"}, schema.Required)
}

func TestDeepNestingWithoutRefs(t *testing.T) {
	// Structural nesting alone must not trip the reference depth limit.
	var b strings.Builder
	b.WriteString(`{"openapi":"3.0.0","info":{"title":"T","version":"1"},"paths":{},"components":{"schemas":{"Deep":`)
	const levels = 150
	for i := 0; i < levels; i++ {
		b.WriteString(`{"type":"object","properties":{"p":`)
	}
	b.WriteString(`{"type":"string"}`)
	for i := 0; i < levels; i++ {
		b.WriteString(`}}`)
	}
	b.WriteString(`}}}`)

	_, err := LoadBytes([]byte(b.String()))
	assert.NoError(t, err)
}

func TestDerivedOperationIDs(t *testing.T) {
	const yml = `
openapi: "3.0.0"
info:
  title: T
  version: "1"
paths:
  /pets/{id}:
    get:
      operationId: getPet
      responses:
        "200":
          description: OK
    delete:
      responses:
        "204":
          description: No Content
`
	doc, err := LoadBytes([]byte(yml))
	require.NoError(t, err)

	item := doc.Paths["/pets/{id}"]
	require.NotNil(t, item)
	assert.Equal(t, "getPet", item.Get.OperationID)
	assert.Equal(t, "delete /pets/{id}", item.Delete.OperationID)
}

func TestOptions(t *testing.T) {
	t.Run("nil logger rejected", func(t *testing.T) {
		_, err := LoadBytes([]byte(petstoreYAML), WithLogger(nil))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("non-positive ref depth rejected", func(t *testing.T) {
		_, err := LoadBytes([]byte(petstoreYAML), WithMaxRefDepth(0))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}
