package conform

import (
	"strings"

	"github.com/erraggy/oasassert/message"
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

// Validator checks captured HTTP requests and responses against a loaded
// OpenAPI document. It supports both OAS 2.0 (Swagger) and OAS 3.x.
//
// Create a Validator with New:
//
//	doc, _ := spec.Load("openapi.yaml")
//	v, err := conform.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := v.CheckRequest(req)
//	if !result.Valid {
//	    fmt.Println(result.Summary())
//	}
//
// A Validator is safe for concurrent use once constructed.
type Validator struct {
	doc *spec.Document

	// matchers resolves concrete request paths to declared path templates
	matchers *PathMatcherSet

	// engine validates data values against schemas
	engine *SchemaValidator

	// sensitiveEngine is the redacting variant used for headers and cookies,
	// whose values may carry credentials
	sensitiveEngine *SchemaValidator

	cfg *config
}

// New creates a Validator from a loaded document.
// Path matchers are pre-compiled so per-check matching is cheap.
func New(doc *spec.Document, opts ...Option) (*Validator, error) {
	if doc == nil {
		return nil, &oaserrors.ConfigError{Message: "document cannot be nil"}
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	matchers, err := NewPathMatcherSet(doc.PathTemplates())
	if err != nil {
		return nil, &oaserrors.SchemaError{Message: "invalid path template", Cause: err}
	}

	return &Validator{
		doc:             doc,
		matchers:        matchers,
		engine:          NewSchemaValidator(),
		sensitiveEngine: NewRedactingSchemaValidator(),
		cfg:             cfg,
	}, nil
}

// Document returns the loaded OpenAPI document backing this validator.
func (v *Validator) Document() *spec.Document {
	return v.doc
}

// resolvedOperation carries everything located while matching a request
// against the document.
type resolvedOperation struct {
	template   string
	pathItem   *spec.PathItem
	op         *spec.Operation
	pathParams map[string]string
}

// resolveOperation matches the request path to a declared template and its
// operation. A path with no matching template yields OperationNotFoundError;
// a matched path whose method is undeclared yields MethodNotAllowedError.
func (v *Validator) resolveOperation(req message.Request) (*resolvedOperation, error) {
	template, params, found := v.matchers.Match(req.Path)
	if !found {
		return nil, &oaserrors.OperationNotFoundError{Path: req.Path}
	}

	pathItem := v.doc.Paths[template]
	if pathItem == nil {
		return nil, &oaserrors.OperationNotFoundError{Path: req.Path}
	}

	op := pathItem.Operation(req.Method)
	if op == nil {
		return nil, &oaserrors.MethodNotAllowedError{
			Template: template,
			Method:   strings.ToUpper(req.Method),
		}
	}

	return &resolvedOperation{
		template:   template,
		pathItem:   pathItem,
		op:         op,
		pathParams: params,
	}, nil
}

// CheckRequest validates a captured request against the document: operation
// match, path, query, header and cookie parameters, and the request body.
//
// Match failures (no template, undeclared method) are recorded both as result
// errors and in Result.MatchErr for errors.Is checks.
func (v *Validator) CheckRequest(req message.Request) *Result {
	result := newResult()
	result.MatchedMethod = strings.ToUpper(req.Method)

	resolved, err := v.resolveOperation(req)
	if err != nil {
		result.MatchErr = err
		result.addError(req.Path, err.Error(), SeverityError)
		return result
	}

	result.MatchedPath = resolved.template
	result.PathParams = resolved.pathParams

	v.cfg.logger.Debug("checking request",
		"method", req.Method, "path", req.Path, "template", resolved.template)

	params := mergeParameters(resolved.pathItem, resolved.op)
	v.checkPathParams(resolved.pathParams, params, result)
	v.checkQueryParams(req, params, result)
	v.checkHeaderParams(req, params, result)
	v.checkCookieParams(req, params, result)
	v.checkRequestBody(req, resolved.op, params, result)

	v.finish(result)
	return result
}

// CheckResponse validates a captured response against the document. The
// request is needed to locate the operation whose responses apply.
//
// A status code with no matching response entry (exact, wildcard class, or
// default) is an error, recorded in Result.MatchErr as
// ResponseSpecNotFoundError.
func (v *Validator) CheckResponse(req message.Request, resp message.Response) *Result {
	result := newResult()
	result.MatchedMethod = strings.ToUpper(req.Method)
	result.StatusCode = resp.StatusCode

	resolved, err := v.resolveOperation(req)
	if err != nil {
		result.MatchErr = err
		result.addError(req.Path, err.Error(), SeverityError)
		return result
	}

	result.MatchedPath = resolved.template
	result.PathParams = resolved.pathParams

	v.cfg.logger.Debug("checking response",
		"method", req.Method, "template", resolved.template, "status", resp.StatusCode)

	v.checkResponseParts(resp, resolved, result)

	v.finish(result)
	return result
}

// finish applies the warning policy: strict mode promotes warnings to
// errors, and disabled warnings are dropped.
func (v *Validator) finish(result *Result) {
	if v.cfg.strict && len(result.Warnings) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
		return
	}
	if !v.cfg.includeWarnings {
		result.Warnings = nil
	}
}

// recordIssues copies engine findings into the result, splitting errors
// from warnings.
func (v *Validator) recordIssues(found []ValidationError, result *Result) {
	for _, issue := range found {
		if issue.Severity == SeverityWarning {
			result.addWarning(issue.Path, issue.Message)
			continue
		}
		result.addError(issue.Path, issue.Message, issue.Severity)
	}
}
