package assertions

import (
	"github.com/erraggy/oasassert/conform"
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

// config holds the resolved assertions configuration.
type config struct {
	schemaPath  string
	doc         *spec.Document
	specOpts    []spec.Option
	conformOpts []conform.Option
}

// Option configures an Assertions instance.
type Option func(*config) error

func buildConfig(opts []Option) (*config, error) {
	cfg := &config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// document resolves the configured OpenAPI document, loading it from disk
// when a path was given.
func (cfg *config) document() (*spec.Document, error) {
	switch {
	case cfg.doc != nil && cfg.schemaPath != "":
		return nil, &oaserrors.ConfigError{
			Message: "WithSchemaPath and WithDocument are mutually exclusive",
		}
	case cfg.doc != nil:
		return cfg.doc, nil
	case cfg.schemaPath != "":
		return spec.Load(cfg.schemaPath, cfg.specOpts...)
	default:
		return nil, &oaserrors.ConfigError{
			Message: "an OpenAPI document is required: use WithSchemaPath or WithDocument",
		}
	}
}

// WithSchemaPath selects the OpenAPI document to load from the given file.
// The extension picks the format: .yaml/.yml parse as YAML, anything else as
// JSON.
func WithSchemaPath(path string) Option {
	return func(cfg *config) error {
		if path == "" {
			return &oaserrors.ConfigError{
				Option:  "WithSchemaPath",
				Message: "path cannot be empty",
			}
		}
		cfg.schemaPath = path
		return nil
	}
}

// WithDocument uses an already-loaded document, letting many test suites
// share one load.
func WithDocument(doc *spec.Document) Option {
	return func(cfg *config) error {
		if doc == nil {
			return &oaserrors.ConfigError{
				Option:  "WithDocument",
				Message: "document cannot be nil",
			}
		}
		cfg.doc = doc
		return nil
	}
}

// WithLoaderOptions forwards options to the document loader when
// WithSchemaPath is used.
func WithLoaderOptions(opts ...spec.Option) Option {
	return func(cfg *config) error {
		cfg.specOpts = append(cfg.specOpts, opts...)
		return nil
	}
}

// WithValidatorOptions forwards options to the underlying conform.Validator,
// such as conform.WithStrictMode or conform.WithRejectUndeclaredBody.
func WithValidatorOptions(opts ...conform.Option) Option {
	return func(cfg *config) error {
		cfg.conformOpts = append(cfg.conformOpts, opts...)
		return nil
	}
}
