package conform

import (
	"strconv"
	"strings"

	"github.com/erraggy/oasassert/spec"
)

// coerceValue converts a raw string parameter value into the Go value implied
// by the schema type, so the schema engine sees the same shapes a decoded JSON
// body would produce. Values that fail to convert are returned as strings and
// left for the type check to report.
func coerceValue(raw string, schema *spec.Schema) any {
	if schema == nil {
		return raw
	}
	types := schema.Types()
	if len(types) == 0 {
		return raw
	}

	switch types[0] {
	case "integer", "number":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case "array":
		// Parameters serialize arrays as comma-separated values by default
		// (style "simple", and "form" without explode)
		parts := strings.Split(raw, ",")
		items := make([]any, len(parts))
		for i, part := range parts {
			items[i] = coerceValue(part, schema.Items)
		}
		return items
	}
	return raw
}

// coerceParamValues converts the raw values of a multi-valued parameter.
// Array schemas collect every occurrence; scalar schemas use the first value.
func coerceParamValues(values []string, schema *spec.Schema) any {
	if len(values) == 0 {
		return nil
	}

	if schema != nil {
		for _, t := range schema.Types() {
			if t == "array" {
				if len(values) > 1 {
					// explode=true serialization: one occurrence per item
					items := make([]any, len(values))
					for i, v := range values {
						items[i] = coerceValue(v, schema.Items)
					}
					return items
				}
				return coerceValue(values[0], schema)
			}
		}
	}

	return coerceValue(values[0], schema)
}

// mergeParameters combines path-item-level and operation-level parameters.
// An operation-level parameter overrides a path-item one with the same
// name and location, per the OAS override rule.
func mergeParameters(pathItem *spec.PathItem, op *spec.Operation) []*spec.Parameter {
	if pathItem == nil && op == nil {
		return nil
	}

	merged := make([]*spec.Parameter, 0, 4)
	seen := make(map[string]bool)

	if op != nil {
		for _, p := range op.Parameters {
			merged = append(merged, p)
			seen[paramKey(p)] = true
		}
	}
	if pathItem != nil {
		for _, p := range pathItem.Parameters {
			if !seen[paramKey(p)] {
				merged = append(merged, p)
			}
		}
	}
	return merged
}

func paramKey(p *spec.Parameter) string {
	return strings.ToLower(p.In) + ":" + strings.ToLower(p.Name)
}

// parametersIn filters the merged parameter list by location.
func parametersIn(params []*spec.Parameter, location string) []*spec.Parameter {
	var out []*spec.Parameter
	for _, p := range params {
		if strings.EqualFold(p.In, location) {
			out = append(out, p)
		}
	}
	return out
}
