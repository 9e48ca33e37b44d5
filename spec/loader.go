package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasassert/oaserrors"
)

// SourceFormat represents the format of the source OpenAPI document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format.
	SourceFormatJSON SourceFormat = "json"
)

// Load reads and compiles the OpenAPI document at path.
//
// The format is detected from the extension: .yaml and .yml select the YAML
// parser, everything else the JSON parser. A missing or unreadable file is a
// *oaserrors.ConfigError; a malformed or incomplete document (including
// dangling or circular $refs) is a *oaserrors.SchemaError.
func Load(path string, opts ...Option) (*Document, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "schemaPath",
			Value:   path,
			Message: "cannot read specification file",
			Cause:   err,
		}
	}

	format := SourceFormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = SourceFormatYAML
	}

	cfg.logger.Debug("loading specification", "path", path, "format", string(format))
	return load(data, format, path, cfg)
}

// LoadBytes compiles an OpenAPI document from memory. The format is sniffed
// from the content: documents starting with '{' are parsed as JSON, everything
// else as YAML.
func LoadBytes(data []byte, opts ...Option) (*Document, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	format := SourceFormatYAML
	if trimmed := strings.TrimLeft(string(data), " \t\r\n"); strings.HasPrefix(trimmed, "{") {
		format = SourceFormatJSON
	}

	return load(data, format, "spec.LoadBytes", cfg)
}

// load parses raw bytes into a generic tree, resolves local $refs, and
// decodes the result into the typed model.
func load(data []byte, format SourceFormat, source string, cfg *config) (*Document, error) {
	var raw map[string]any
	switch format {
	case SourceFormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.SchemaError{Path: source, Message: "invalid YAML", Cause: err}
		}
		// YAML mappings with non-string keys (unquoted status codes like
		// 200:) decode as map[any]any; stringify them so ref resolution and
		// the JSON decode see one map shape.
		raw, _ = normalizeKeys(raw).(map[string]any)
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.SchemaError{Path: source, Message: "invalid JSON", Cause: err}
		}
	}

	if raw == nil {
		return nil, &oaserrors.SchemaError{Path: source, Message: "document is empty"}
	}

	if err := validateStructure(raw, source); err != nil {
		return nil, err
	}

	resolved, err := resolveRefs(raw, cfg.maxRefDepth, cfg.logger)
	if err != nil {
		if schemaErr, ok := err.(*oaserrors.SchemaError); ok && schemaErr.Path == "" {
			schemaErr.Path = source
		}
		return nil, err
	}

	doc, err := decodeDocument(resolved)
	if err != nil {
		return nil, &oaserrors.SchemaError{Path: source, Message: "cannot decode document", Cause: err}
	}

	deriveOperationIDs(doc)

	cfg.logger.Debug("specification loaded",
		"version", doc.Version(), "paths", len(doc.Paths))
	return doc, nil
}

// deriveOperationIDs fills in missing operationId values from the method and
// path template, so every operation is addressable in diagnostics.
func deriveOperationIDs(doc *Document) {
	for template, pathItem := range doc.Paths {
		if pathItem == nil {
			continue
		}
		for _, method := range []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"} {
			op := pathItem.Operation(method)
			if op != nil && op.OperationID == "" {
				op.OperationID = method + " " + template
			}
		}
	}
}

// normalizeKeys rewrites every map in the tree to string keys, converting
// scalar keys (integers, booleans) via their canonical string form. YAML
// permits such keys; JSON and the typed model do not.
func normalizeKeys(node any) any {
	switch n := node.(type) {
	case map[string]any:
		for key, value := range n {
			n[key] = normalizeKeys(value)
		}
		return n
	case map[any]any:
		out := make(map[string]any, len(n))
		for key, value := range n {
			out[fmt.Sprint(key)] = normalizeKeys(value)
		}
		return out
	case []any:
		for i, value := range n {
			n[i] = normalizeKeys(value)
		}
		return n
	default:
		return node
	}
}

// validateStructure checks the required top-level OAS fields before decoding.
func validateStructure(raw map[string]any, source string) error {
	_, hasOpenAPI := raw["openapi"].(string)
	_, hasSwagger := raw["swagger"].(string)
	if !hasOpenAPI && !hasSwagger {
		return &oaserrors.SchemaError{
			Path:    source,
			Message: "document declares neither an openapi nor a swagger version",
		}
	}

	paths, hasPaths := raw["paths"]
	if !hasPaths {
		return &oaserrors.SchemaError{Path: source, Message: "required field paths is missing"}
	}
	if _, ok := paths.(map[string]any); !ok {
		return &oaserrors.SchemaError{Path: source, Message: "paths must be a mapping"}
	}
	return nil
}

// decodeDocument converts the resolved generic tree into the typed model via
// a JSON roundtrip.
func decodeDocument(raw map[string]any) (*Document, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		doc.Paths = map[string]*PathItem{}
	}
	return &doc, nil
}
