package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

// Entity naming modes.
const (
	// NamingPascal title-cases every word of the table name and
	// upper-cases known initialisms (user_profile => UserProfile).
	NamingPascal = "pascal"
	// NamingCapitalize upper-cases the first letter only
	// (user_profile => User_profile).
	NamingCapitalize = "capitalize"
)

// Plural modes for the get-all method name.
const (
	// PluralSuffix appends a literal "s".
	PluralSuffix = "suffix"
	// PluralInflect applies English pluralization rules.
	PluralInflect = "inflect"
)

// DefaultPackage is used when the target directory name is not a valid
// package name.
const DefaultPackage = "repository"

// Config holds the global codegen configuration to be
// shared between all generated artifacts.
type Config struct {
	// Target defines the filepath for the target directory that
	// holds the generated code. For example:
	//
	//	./internal/repository
	//
	// Defaults to the current directory.
	Target string `yaml:"target,omitempty"`

	// Package is the Go package name of the generated files. Defaults to
	// the base name of Target.
	Package string `yaml:"package,omitempty"`

	// Dialect selects the database/sql backend the adapter is rendered for.
	// One of "postgres" or "sqlite". Defaults to "postgres".
	Dialect string `yaml:"dialect,omitempty"`

	// Naming selects how table names become entity names.
	Naming string `yaml:"naming,omitempty"`

	// Plural selects how the get-all method name is derived.
	Plural string `yaml:"plural,omitempty"`

	// Header is an optional comment added below the generated-code notice.
	Header string `yaml:"header,omitempty"`

	// Strict turns skipped statements into errors.
	Strict bool `yaml:"strict,omitempty"`

	// Workers bounds the number of files written in parallel.
	// Defaults to GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`

	// Files overrides the names of the graph-level artifacts.
	Files Files `yaml:"files,omitempty"`

	// Verify configures the database used by the query verifier.
	Verify Verify `yaml:"verify,omitempty"`

	// Storage is the resolved storage driver of Dialect.
	Storage *Storage `yaml:"-"`

	// derived records the values Normalize filled in, so that a later call
	// recomputes them after Target or Dialect changed.
	derived struct {
		pkg     string
		adapter string
	}
}

// Files holds the file names of the graph-level artifacts.
type Files struct {
	Repository string `yaml:"repository,omitempty"`
	Adapter    string `yaml:"adapter,omitempty"`
}

// Verify holds the connection settings of the query verifier.
type Verify struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// LoadConfig reads a YAML configuration file. The returned config is not
// normalized; options and flags may still be applied on top of it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Normalize fills in defaults and validates the configuration. It is safe
// to call more than once. The package and adapter file names it derives
// follow later changes of Target and Dialect; names set explicitly are kept.
func (c *Config) Normalize() error {
	if c.Target == "" {
		c.Target = "."
	}
	if c.Dialect == "" {
		c.Dialect = "postgres"
	}
	storage, err := NewStorage(c.Dialect)
	if err != nil {
		return NewConfigError("Dialect", c.Dialect, err.Error())
	}
	c.Storage = storage
	c.Dialect = storage.Name

	switch c.Naming {
	case "":
		c.Naming = NamingPascal
	case NamingPascal, NamingCapitalize:
	default:
		return NewConfigError("Naming", c.Naming, "unsupported naming; use pascal or capitalize")
	}
	switch c.Plural {
	case "":
		c.Plural = PluralSuffix
	case PluralSuffix, PluralInflect:
	default:
		return NewConfigError("Plural", c.Plural, "unsupported plural; use suffix or inflect")
	}

	if c.Package == "" || c.Package == c.derived.pkg {
		c.Package = packageName(c.Target)
		c.derived.pkg = c.Package
	}
	if !isIdent(c.Package) {
		return NewConfigError("Package", c.Package, "not a valid Go package name")
	}
	if c.Workers < 0 {
		return NewConfigError("Workers", c.Workers, "cannot be negative")
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	if c.Files.Repository == "" {
		c.Files.Repository = "repository.go"
	}
	if c.Files.Adapter == "" || c.Files.Adapter == c.derived.adapter {
		c.Files.Adapter = storage.Name + "_adapter.go"
		c.derived.adapter = c.Files.Adapter
	}
	for _, name := range []string{c.Files.Repository, c.Files.Adapter} {
		if filepath.Base(name) != name || filepath.Ext(name) != ".go" {
			return NewConfigError("Files", name, "must be a plain .go file name")
		}
	}
	if c.Files.Repository == c.Files.Adapter {
		return NewConfigError("Files", c.Files.Adapter, "repository and adapter files must differ")
	}
	return nil
}

// graphFiles returns the file names of the graph-level artifacts.
func (c *Config) graphFiles() []string {
	return []string{c.Files.Repository, c.Files.Adapter}
}

// packageName derives a package name from the target directory.
func packageName(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return DefaultPackage
	}
	name := filepath.Base(abs)
	if !isIdent(name) || slices.Contains([]string{"main", "internal"}, name) {
		return DefaultPackage
	}
	return name
}
