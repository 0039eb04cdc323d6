package gen

import (
	"errors"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets an additional header comment.
// The header is added below the generated-code notice of each file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the Go package name of the generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !isIdent(pkg) {
			return NewConfigError("Package", pkg, "not a valid Go package name")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithDialect sets the database dialect by name.
// Supported dialects: "postgres", "sqlite".
func WithDialect(name string) Option {
	return func(c *Config) error {
		storage, err := NewStorage(name)
		if err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use postgres or sqlite")
		}
		c.Dialect = storage.Name
		c.Storage = storage
		return nil
	}
}

// WithNaming sets the entity naming mode.
// Supported modes: "pascal", "capitalize".
func WithNaming(mode string) Option {
	return func(c *Config) error {
		switch mode {
		case NamingPascal, NamingCapitalize:
			c.Naming = mode
			return nil
		default:
			return NewConfigError("Naming", mode, "unsupported naming; use pascal or capitalize")
		}
	}
}

// WithPlural sets how the get-all method name is pluralized.
// Supported modes: "suffix", "inflect".
func WithPlural(mode string) Option {
	return func(c *Config) error {
		switch mode {
		case PluralSuffix, PluralInflect:
			c.Plural = mode
			return nil
		default:
			return NewConfigError("Plural", mode, "unsupported plural; use suffix or inflect")
		}
	}
}

// WithStrict makes skipped statements fail the generation.
func WithStrict(strict bool) Option {
	return func(c *Config) error {
		c.Strict = strict
		return nil
	}
}

// WithWorkers bounds the number of files written in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithVerifyDB sets the driver and DSN used by the query verifier.
func WithVerifyDB(driver, dsn string) Option {
	return func(c *Config) error {
		if driver != "" {
			if _, err := NewStorage(driver); err != nil {
				return NewConfigError("Verify.Driver", driver, "unsupported driver; use postgres or sqlite")
			}
			c.Verify.Driver = driver
		}
		if dsn != "" {
			c.Verify.DSN = dsn
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

// NewConfig creates a new normalized Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if err := c.Normalize(); err != nil {
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
