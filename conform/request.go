package conform

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/erraggy/oasassert/internal/httputil"
	"github.com/erraggy/oasassert/message"
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

// checkPathParams validates the values extracted by path matching against
// the declared path parameters.
func (v *Validator) checkPathParams(pathParams map[string]string, params []*spec.Parameter, result *Result) {
	defined := make(map[string]*spec.Parameter)
	for _, p := range parametersIn(params, "path") {
		defined[p.Name] = p
	}

	for name, raw := range pathParams {
		param, ok := defined[name]
		if !ok {
			// Numeric-segment normalization matches "{id}" templates whose
			// parameter may carry a different declared name; only warn.
			result.addWarning("path."+name,
				fmt.Sprintf("path parameter %q not declared for this operation", name))
			continue
		}

		schema := param.EffectiveSchema()
		value := coerceValue(raw, schema)
		v.recordIssues(v.engine.Validate(value, schema, "path."+name), result)
	}

	// Path parameters are always required per the OAS
	for name := range defined {
		if _, found := pathParams[name]; !found {
			result.addError("path."+name,
				fmt.Sprintf("required path parameter %q is missing", name),
				SeverityError)
		}
	}
}

// checkQueryParams validates the request's query string against the declared
// query parameters.
func (v *Validator) checkQueryParams(req message.Request, params []*spec.Parameter, result *Result) {
	defined := parametersIn(params, "query")

	processed := make(map[string]bool, len(defined))
	for _, param := range defined {
		values, present := req.Query[param.Name]

		if !present {
			if param.Required {
				result.addError("query."+param.Name,
					fmt.Sprintf("required query parameter %q is missing", param.Name),
					SeverityError)
			}
			continue
		}
		processed[param.Name] = true

		if len(values) == 1 && values[0] == "" && !param.AllowEmptyValue {
			result.addWarning("query."+param.Name,
				fmt.Sprintf("query parameter %q has empty value", param.Name))
		}

		schema := param.EffectiveSchema()
		value := coerceParamValues(values, schema)
		v.recordIssues(v.engine.Validate(value, schema, "query."+param.Name), result)
	}

	if v.cfg.strict {
		for key := range req.Query {
			if !processed[key] {
				result.addError("query."+key,
					fmt.Sprintf("unknown query parameter %q", key),
					SeverityError)
			}
		}
	}
}

// checkHeaderParams validates the request headers against the declared header
// parameters. Header values are validated with the redacting engine so
// credentials never surface in error messages.
func (v *Validator) checkHeaderParams(req message.Request, params []*spec.Parameter, result *Result) {
	for _, param := range parametersIn(params, "header") {
		canonical := http.CanonicalHeaderKey(param.Name)
		values, present := req.Header[canonical]

		if !present || len(values) == 0 {
			if param.Required {
				result.addError("header."+param.Name,
					fmt.Sprintf("required header parameter %q is missing", param.Name),
					SeverityError)
			}
			continue
		}

		schema := param.EffectiveSchema()
		value := coerceValue(values[0], schema)
		v.recordIssues(v.sensitiveEngine.Validate(value, schema, "header."+param.Name), result)
	}
}

// checkCookieParams validates request cookies against the declared cookie
// parameters. Cookie values are validated with the redacting engine.
func (v *Validator) checkCookieParams(req message.Request, params []*spec.Parameter, result *Result) {
	defined := parametersIn(params, "cookie")
	if len(defined) == 0 {
		return
	}

	// Parse the Cookie header the way net/http does
	carrier := http.Request{Header: req.Header}

	for _, param := range defined {
		cookie, err := carrier.Cookie(param.Name)
		if errors.Is(err, http.ErrNoCookie) {
			if param.Required {
				result.addError("cookie."+param.Name,
					fmt.Sprintf("required cookie parameter %q is missing", param.Name),
					SeverityError)
			}
			continue
		}

		schema := param.EffectiveSchema()
		value := coerceValue(cookie.Value, schema)
		v.recordIssues(v.sensitiveEngine.Validate(value, schema, "cookie."+param.Name), result)
	}
}

// checkRequestBody validates the request body against the declared body
// schema: the requestBody content map for OAS 3.x, or the body/formData
// parameters for OAS 2.0.
func (v *Validator) checkRequestBody(req message.Request, op *spec.Operation, params []*spec.Parameter, result *Result) {
	schema, declared, required := v.requestBodySchema(req, op, params, result)

	if !req.HasBody() {
		if required {
			result.addError("requestBody", "request body is required but missing", SeverityError)
		}
		return
	}

	if !declared {
		if v.cfg.rejectUndeclaredBody {
			result.addError("requestBody",
				"request carries a body but the operation declares none",
				SeverityError)
		} else {
			result.addWarning("requestBody",
				"request carries a body but the operation declares none")
		}
		return
	}

	if len(req.Body) > v.cfg.maxBodySize {
		result.addWarning("requestBody",
			fmt.Sprintf("body of %d bytes exceeds the %d byte limit, skipping validation",
				len(req.Body), v.cfg.maxBodySize))
		return
	}

	contentType := req.ContentType()
	if contentType == "application/x-www-form-urlencoded" {
		v.checkFormBody(req.Body, params, result)
		return
	}

	if schema == nil {
		// Declared content type without a schema: nothing to check
		return
	}

	data, err := req.DecodeBody()
	if err != nil {
		var decodeErr *oaserrors.BodyDecodeError
		if errors.As(err, &decodeErr) {
			result.addError("requestBody", decodeErr.Error(), SeverityError)
			return
		}
		result.addError("requestBody", fmt.Sprintf("failed to decode body: %v", err), SeverityError)
		return
	}

	if !httputil.IsJSONMediaType(contentType) && contentType != "" {
		// Non-JSON bodies decode to raw strings; only string schemas apply
		types := schema.Types()
		if len(types) > 0 && types[0] != "string" {
			result.addWarning("requestBody",
				fmt.Sprintf("cannot validate content type %q against a %s schema", contentType, types[0]))
			return
		}
	}

	v.recordIssues(v.engine.Validate(data, schema, "body"), result)
}

// requestBodySchema locates the schema declared for the request's body and
// reports whether any body is declared at all, and whether it is required.
func (v *Validator) requestBodySchema(req message.Request, op *spec.Operation, params []*spec.Parameter, result *Result) (schema *spec.Schema, declared, required bool) {
	if v.doc.IsOAS3() {
		rb := op.RequestBody
		if rb == nil {
			return nil, false, false
		}
		if !req.HasBody() {
			return nil, true, rb.Required
		}

		contentType := req.ContentType()
		if mt := matchContent(rb.Content, contentType); mt != nil {
			return mt.Schema, true, rb.Required
		}

		if v.cfg.strict {
			result.addError("requestBody",
				fmt.Sprintf("content type %q is not declared for this operation", contentType),
				SeverityError)
		} else {
			result.addWarning("requestBody",
				fmt.Sprintf("content type %q is not declared for this operation", contentType))
		}
		return nil, true, rb.Required
	}

	// OAS 2.0: a single "body" parameter carries the schema
	for _, param := range parametersIn(params, "body") {
		return param.Schema, true, param.Required
	}
	// formData parameters also constitute a declared body
	if len(parametersIn(params, "formData")) > 0 {
		return nil, true, false
	}
	return nil, false, false
}

// checkFormBody validates an application/x-www-form-urlencoded body against
// the declared formData parameters (OAS 2.0).
func (v *Validator) checkFormBody(body []byte, params []*spec.Parameter, result *Result) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		result.addError("requestBody", fmt.Sprintf("malformed form body: %v", err), SeverityError)
		return
	}

	for _, param := range parametersIn(params, "formData") {
		fieldValues, present := values[param.Name]
		if !present {
			if param.Required {
				result.addError("body."+param.Name,
					fmt.Sprintf("required form field %q is missing", param.Name),
					SeverityError)
			}
			continue
		}

		schema := param.EffectiveSchema()
		value := coerceParamValues(fieldValues, schema)
		v.recordIssues(v.engine.Validate(value, schema, "body."+param.Name), result)
	}
}

// matchContent resolves a concrete media type against a content map,
// preferring exact matches over wildcard patterns.
func matchContent(content map[string]*spec.MediaType, mediaType string) *spec.MediaType {
	if len(content) == 0 {
		return nil
	}
	if mt, ok := content[mediaType]; ok {
		return mt
	}
	for pattern, mt := range content {
		if httputil.MatchMediaType(pattern, mediaType) {
			return mt
		}
	}
	return nil
}
