package spec

import "github.com/erraggy/oasassert/oaserrors"

// Option is a functional option for configuring the loader.
type Option func(*config) error

// config holds loader configuration.
type config struct {
	logger      Logger
	maxRefDepth int
}

// buildConfig applies options over the defaults.
func buildConfig(opts []Option) (*config, error) {
	cfg := &config{
		logger:      NopLogger{},
		maxRefDepth: defaultMaxRefDepth,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithLogger sets the structured logger used during loading.
// If not set, logging is disabled.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &oaserrors.ConfigError{Option: "logger", Message: "logger cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}

// WithMaxRefDepth sets the maximum depth for resolving nested $ref pointers.
// Default: 100.
func WithMaxRefDepth(depth int) Option {
	return func(c *config) error {
		if depth <= 0 {
			return &oaserrors.ConfigError{Option: "maxRefDepth", Value: depth, Message: "must be positive"}
		}
		c.maxRefDepth = depth
		return nil
	}
}
