package spec

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasassert/oaserrors"
)

// defaultMaxRefDepth bounds nested $ref resolution.
const defaultMaxRefDepth = 100

// resolveRefs returns a copy of the raw document tree with every local $ref
// pointer replaced by the value it points to. Only local references ("#/...")
// are supported; anything else fails with a SchemaError, as do dangling
// pointers and reference cycles.
func resolveRefs(root map[string]any, maxDepth int, logger Logger) (map[string]any, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxRefDepth
	}
	r := &resolver{root: root, maxDepth: maxDepth, logger: logger, active: map[string]bool{}}
	resolved, err := r.resolveNode(root, 0)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

type resolver struct {
	root     map[string]any
	maxDepth int
	logger   Logger
	// active tracks $ref strings on the current resolution stack for cycle detection
	active map[string]bool
}

// resolveNode walks the tree. depth counts $ref hops on the current stack,
// not structural nesting, so arbitrarily deep ref-free documents resolve fine.
func (r *resolver) resolveNode(node any, depth int) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			return r.resolveRef(ref, depth)
		}
		out := make(map[string]any, len(n))
		for key, value := range n {
			resolved, err := r.resolveNode(value, depth)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil

	case []any:
		out := make([]any, len(n))
		for i, value := range n {
			resolved, err := r.resolveNode(value, depth)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return node, nil
	}
}

func (r *resolver) resolveRef(ref string, depth int) (any, error) {
	if depth >= r.maxDepth {
		return nil, &oaserrors.SchemaError{
			Ref:     ref,
			Message: fmt.Sprintf("reference depth exceeds maximum of %d", r.maxDepth),
		}
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, &oaserrors.SchemaError{
			Ref:     ref,
			Message: "only local references are supported",
		}
	}

	if r.active[ref] {
		return nil, &oaserrors.SchemaError{Ref: ref, IsCircular: true}
	}

	target, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolving reference", "ref", ref, "depth", depth)

	r.active[ref] = true
	resolved, err := r.resolveNode(target, depth+1)
	delete(r.active, ref)
	return resolved, err
}

// lookup walks a JSON pointer fragment against the document root.
func (r *resolver) lookup(ref string) (any, error) {
	var current any = r.root
	for _, token := range strings.Split(ref[2:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")

		obj, ok := current.(map[string]any)
		if !ok {
			return nil, &oaserrors.SchemaError{
				Ref:     ref,
				Message: fmt.Sprintf("segment %q does not address a mapping", token),
			}
		}
		current, ok = obj[token]
		if !ok {
			return nil, &oaserrors.SchemaError{
				Ref:     ref,
				Message: fmt.Sprintf("dangling reference: %q not found", token),
			}
		}
	}
	return current, nil
}
