package conform

import (
	"github.com/erraggy/oasassert/oaserrors"
	"github.com/erraggy/oasassert/spec"
)

// defaultMaxBodySize is the largest body the checkers will decode and
// validate. Larger bodies are skipped with a warning rather than failing,
// since a huge payload is usually a fixture problem rather than a schema one.
const defaultMaxBodySize = 10 << 20 // 10 MiB

// config holds the resolved validator configuration.
type config struct {
	strict               bool
	includeWarnings      bool
	rejectUndeclaredBody bool
	maxBodySize          int
	logger               spec.Logger
}

// Option configures a Validator.
type Option func(*config) error

func buildConfig(opts []Option) (*config, error) {
	cfg := &config{
		includeWarnings: true,
		maxBodySize:     defaultMaxBodySize,
		logger:          spec.NopLogger{},
	}
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

// WithStrictMode enables stricter checking:
//   - unknown query parameters are rejected
//   - request bodies with an undeclared content type are rejected
//   - warnings are promoted to errors
func WithStrictMode(strict bool) Option {
	return func(cfg *config) error {
		cfg.strict = strict
		return nil
	}
}

// WithIncludeWarnings controls whether best-practice findings (format
// mismatches, undocumented bodies) are collected. Default true.
func WithIncludeWarnings(include bool) Option {
	return func(cfg *config) error {
		cfg.includeWarnings = include
		return nil
	}
}

// WithRejectUndeclaredBody makes a request body an error when the matched
// operation declares none. By default such bodies are tolerated with a
// warning, since servers commonly ignore unexpected payloads.
func WithRejectUndeclaredBody(reject bool) Option {
	return func(cfg *config) error {
		cfg.rejectUndeclaredBody = reject
		return nil
	}
}

// WithMaxBodySize caps the body size, in bytes, that the checkers will decode.
// Bodies over the cap skip schema validation with a warning.
func WithMaxBodySize(size int) Option {
	return func(cfg *config) error {
		if size <= 0 {
			return &oaserrors.ConfigError{
				Option:  "WithMaxBodySize",
				Value:   size,
				Message: "size must be positive",
			}
		}
		cfg.maxBodySize = size
		return nil
	}
}

// WithLogger sets the logger used for diagnostic output during checking.
func WithLogger(logger spec.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return &oaserrors.ConfigError{
				Option:  "WithLogger",
				Message: "logger cannot be nil",
			}
		}
		cfg.logger = logger
		return nil
	}
}
