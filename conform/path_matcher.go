package conform

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasassert/internal/stringutil"
)

// PathMatcher matches concrete request paths against a single OpenAPI path
// template, extracting the values bound by {name} segments.
type PathMatcher struct {
	template    string
	regex       *regexp.Regexp
	paramNames  []string
	specificity int
}

// templateParamRe locates {name} placeholders inside a path template.
var templateParamRe = regexp.MustCompile(`\{([^{}]*)\}`)

// NewPathMatcher compiles an OpenAPI path template such as
// "/orders/{orderId}/items/{itemId}" into a matcher.
//
// Malformed templates are rejected: stray or unclosed braces, empty
// parameter names, duplicate parameter names.
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var pattern strings.Builder
	pattern.WriteString("^")

	var paramNames []string
	specificity := 0
	last := 0

	for _, loc := range templateParamRe.FindAllStringSubmatchIndex(template, -1) {
		literal := template[last:loc[0]]
		if strings.ContainsAny(literal, "{}") {
			return nil, fmt.Errorf("unclosed path parameter in template %q", template)
		}
		pattern.WriteString(regexp.QuoteMeta(literal))
		specificity += literalWeight(literal)

		name := template[loc[2]:loc[3]]
		if name == "" {
			return nil, fmt.Errorf("empty path parameter in template %q", template)
		}
		if slices.Contains(paramNames, name) {
			return nil, fmt.Errorf("duplicate path parameter %q in template %q", name, template)
		}
		paramNames = append(paramNames, name)

		// One capture group per parameter; a segment never spans a slash
		pattern.WriteString("([^/]+)")
		specificity--

		last = loc[1]
	}

	tail := template[last:]
	if strings.ContainsAny(tail, "{}") {
		return nil, fmt.Errorf("unclosed path parameter in template %q", template)
	}
	pattern.WriteString(regexp.QuoteMeta(tail))
	specificity += literalWeight(tail)

	pattern.WriteString("$")

	regex, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &PathMatcher{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
	}, nil
}

// literalWeight scores a literal template chunk for match ordering. Slashes
// separate segments and carry no weight; every other literal character makes
// the template more specific, while parameters (scored by the caller) make it
// less so.
func literalWeight(literal string) int {
	return len(literal) - strings.Count(literal, "/")
}

// Match reports whether path matches this template, binding parameter values
// on success.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	groups := pm.regex.FindStringSubmatch(path)
	if len(groups) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		params[name] = groups[i+1]
	}
	return true, params
}

// Template returns the original path template.
func (pm *PathMatcher) Template() string {
	return pm.template
}

// ParamNames returns the parameter names in order of appearance.
func (pm *PathMatcher) ParamNames() []string {
	return pm.paramNames
}

// NormalizeNumericSegments replaces every purely numeric segment of a concrete
// path with the generic "{id}" placeholder, so real traffic like "/users/42"
// can be looked up against schemas keyed by template.
func NormalizeNumericSegments(path string) string {
	segments := strings.Split(path, "/")
	changed := false
	for i, seg := range segments {
		if stringutil.IsDigits(seg) {
			segments[i] = "{id}"
			changed = true
		}
	}
	if !changed {
		return path
	}
	return strings.Join(segments, "/")
}

// PathMatcherSet resolves request paths against a set of templates, applying
// the OpenAPI precedence rules.
type PathMatcherSet struct {
	// matchers in match order: most specific first
	matchers []*PathMatcher

	// byTemplate indexes matchers for the numeric-segment fast path
	byTemplate map[string]*PathMatcher
}

// NewPathMatcherSet compiles every template and orders the set for matching:
// higher specificity first, then longer templates, then lexicographic for a
// stable tiebreak.
func NewPathMatcherSet(templates []string) (*PathMatcherSet, error) {
	set := &PathMatcherSet{
		matchers:   make([]*PathMatcher, 0, len(templates)),
		byTemplate: make(map[string]*PathMatcher, len(templates)),
	}

	for _, template := range templates {
		matcher, err := NewPathMatcher(template)
		if err != nil {
			return nil, err
		}
		set.matchers = append(set.matchers, matcher)
		set.byTemplate[template] = matcher
	}

	sort.Slice(set.matchers, func(i, j int) bool {
		a, b := set.matchers[i], set.matchers[j]
		if a.specificity != b.specificity {
			return a.specificity > b.specificity
		}
		if len(a.template) != len(b.template) {
			return len(a.template) > len(b.template)
		}
		return a.template < b.template
	})

	return set, nil
}

// Match finds the best matching template for a concrete request path.
//
// A path whose numeric segments normalize onto a declared template (numeric
// segment ⇒ "{id}") resolves to that template directly; otherwise templates
// are tried in specificity order, so exact templates win over parameterized
// ones. Matching is deterministic: the same path always yields the same
// template and parameters, or no match.
func (pms *PathMatcherSet) Match(path string) (template string, params map[string]string, found bool) {
	if normalized := NormalizeNumericSegments(path); normalized != path {
		if matcher, ok := pms.byTemplate[normalized]; ok {
			if matched, params := matcher.Match(path); matched {
				return matcher.template, params, true
			}
		}
	}

	for _, matcher := range pms.matchers {
		if matched, params := matcher.Match(path); matched {
			return matcher.template, params, true
		}
	}
	return "", nil, false
}

// Templates returns all templates in the set, in match order.
func (pms *PathMatcherSet) Templates() []string {
	templates := make([]string, len(pms.matchers))
	for i, m := range pms.matchers {
		templates[i] = m.template
	}
	return templates
}
