package gen

import (
	"errors"

	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTypes restricts generation to the given type names.
func WithTypes(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if !schema.ValidIdentifier(name) {
				return NewConfigError("Types", name, "not a Go type name")
			}
		}
		c.Types = append(c.Types, names...)
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithKind maps a named Go type onto a value kind, e.g. a string based
// enumeration onto value.KindText. goType is the package path qualified type
// name, such as "example.com/models.Status". The mapping is registered
// process wide and is shared by the reflection based codec.
func WithKind(goType string, k value.Kind) Option {
	return func(*Config) error {
		if err := value.Register(goType, k); err != nil {
			return &ConfigError{Option: "Kind", Value: goType, Message: err.Error()}
		}
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
