package conform

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/erraggy/oasassert/internal/httputil"
	"github.com/erraggy/oasassert/message"
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

// checkResponseParts validates the response status, headers, and body against
// the matched operation's declared responses.
func (v *Validator) checkResponseParts(resp message.Response, resolved *resolvedOperation, result *Result) {
	responseDef := selectResponse(resolved.op.Responses, resp.StatusCode)
	if responseDef == nil {
		err := &oaserrors.ResponseSpecNotFoundError{
			Template:   resolved.template,
			Method:     result.MatchedMethod,
			StatusCode: resp.StatusCode,
		}
		result.MatchErr = err
		result.addError(fmt.Sprintf("response.%d", resp.StatusCode), err.Error(), SeverityError)
		return
	}

	v.checkResponseHeaders(resp, responseDef, result)
	v.checkResponseBody(resp, responseDef, result)
}

// selectResponse finds the response entry for a status code: exact match
// first, then the wildcard class (2XX, 4XX, ...), then default.
func selectResponse(responses *spec.Responses, statusCode int) *spec.Response {
	if responses == nil {
		return nil
	}

	if resp, ok := responses.Codes[strconv.Itoa(statusCode)]; ok {
		return resp
	}

	for pattern, resp := range responses.Codes {
		if httputil.ValidStatusPattern(pattern) && httputil.MatchStatusPattern(pattern, statusCode) {
			return resp
		}
	}

	return responses.Default
}

// checkResponseHeaders validates declared response headers. Content-Type is
// skipped per the OAS, which excludes it from the headers map semantics.
// Values are validated with the redacting engine.
func (v *Validator) checkResponseHeaders(resp message.Response, responseDef *spec.Response, result *Result) {
	for name, headerDef := range responseDef.Headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			continue
		}

		value := resp.Header.Get(name)
		if value == "" {
			if _, present := resp.Header[http.CanonicalHeaderKey(name)]; !present {
				if headerDef.Required {
					result.addError("response.header."+name,
						fmt.Sprintf("required response header %q is missing", name),
						SeverityError)
				}
				continue
			}
		}

		schema := headerDef.EffectiveSchema()
		if schema == nil {
			continue
		}
		coerced := coerceValue(value, schema)
		v.recordIssues(v.sensitiveEngine.Validate(coerced, schema, "response.header."+name), result)
	}
}

// checkResponseBody validates the response body against the declared schema:
// the content map for OAS 3.x, or the inline schema for OAS 2.0.
func (v *Validator) checkResponseBody(resp message.Response, responseDef *spec.Response, result *Result) {
	var schema *spec.Schema
	if v.doc.IsOAS3() {
		if mt := matchContent(responseDef.Content, resp.ContentType()); mt != nil {
			schema = mt.Schema
		}
	} else {
		schema = responseDef.Schema
	}

	if schema == nil {
		if resp.HasBody() && v.doc.IsOAS3() && len(responseDef.Content) > 0 {
			result.addWarning("response.body",
				fmt.Sprintf("content type %q is not declared for this response", resp.ContentType()))
		}
		return
	}

	if !resp.HasBody() {
		// A declared schema with an empty body usually means the handler
		// forgot to write the payload; surface it but leave room for
		// intentionally empty nullable schemas.
		if schema.IsNullable() {
			return
		}
		result.addError("response.body",
			"response body is empty but a schema is declared",
			SeverityError)
		return
	}

	if len(resp.Body) > v.cfg.maxBodySize {
		result.addWarning("response.body",
			fmt.Sprintf("body of %d bytes exceeds the %d byte limit, skipping validation",
				len(resp.Body), v.cfg.maxBodySize))
		return
	}

	data, err := resp.DecodeBody()
	if err != nil {
		var decodeErr *oaserrors.BodyDecodeError
		if errors.As(err, &decodeErr) {
			result.addError("response.body", decodeErr.Error(), SeverityError)
			return
		}
		result.addError("response.body", fmt.Sprintf("failed to decode body: %v", err), SeverityError)
		return
	}

	contentType := resp.ContentType()
	if !httputil.IsJSONMediaType(contentType) && contentType != "" {
		types := schema.Types()
		if len(types) > 0 && types[0] != "string" {
			result.addWarning("response.body",
				fmt.Sprintf("cannot validate content type %q against a %s schema", contentType, types[0]))
			return
		}
	}

	v.recordIssues(v.engine.Validate(data, schema, "response.body"), result)
}
