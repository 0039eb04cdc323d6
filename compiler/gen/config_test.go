package gen

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNormalize(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		c := &Config{Target: filepath.Join(t.TempDir(), "store")}
		require.NoError(t, c.Normalize())

		assert.Equal(t, "postgres", c.Dialect)
		assert.Equal(t, NamingPascal, c.Naming)
		assert.Equal(t, PluralSuffix, c.Plural)
		assert.Equal(t, "store", c.Package)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.Equal(t, "repository.go", c.Files.Repository)
		assert.Equal(t, "postgres_adapter.go", c.Files.Adapter)
		require.NotNil(t, c.Storage)
		assert.Equal(t, "postgres", c.Storage.Name)
	})

	t.Run("is idempotent", func(t *testing.T) {
		c := &Config{Target: t.TempDir(), Package: "repo", Dialect: "sqlite"}
		require.NoError(t, c.Normalize())
		first := *c
		require.NoError(t, c.Normalize())
		assert.Equal(t, first.Files, c.Files)
		assert.Equal(t, first.Package, c.Package)
		assert.Equal(t, "sqlite_adapter.go", c.Files.Adapter)
	})

	t.Run("derived names follow a dialect change", func(t *testing.T) {
		c := &Config{Target: filepath.Join(t.TempDir(), "store")}
		require.NoError(t, c.Normalize())
		assert.Equal(t, "postgres_adapter.go", c.Files.Adapter)

		require.NoError(t, c.Apply(WithDialect("sqlite")))
		require.NoError(t, c.Normalize())
		assert.Equal(t, "sqlite_adapter.go", c.Files.Adapter)
		assert.Equal(t, "sqlite", c.Storage.Name)
	})

	t.Run("derived package follows a target change", func(t *testing.T) {
		dir := t.TempDir()
		c := &Config{Target: filepath.Join(dir, "store")}
		require.NoError(t, c.Normalize())
		assert.Equal(t, "store", c.Package)

		require.NoError(t, c.Apply(WithTarget(filepath.Join(dir, "models"))))
		require.NoError(t, c.Normalize())
		assert.Equal(t, "models", c.Package)
	})

	t.Run("explicit names survive a dialect change", func(t *testing.T) {
		c := &Config{Target: t.TempDir(), Package: "repo", Files: Files{Adapter: "db.go"}}
		require.NoError(t, c.Normalize())
		require.NoError(t, c.Apply(WithDialect("sqlite"), WithTarget(filepath.Join(t.TempDir(), "other"))))
		require.NoError(t, c.Normalize())
		assert.Equal(t, "db.go", c.Files.Adapter)
		assert.Equal(t, "repo", c.Package)
	})

	t.Run("resolves dialect aliases", func(t *testing.T) {
		c := &Config{Target: t.TempDir(), Package: "repo", Dialect: "postgresql"}
		require.NoError(t, c.Normalize())
		assert.Equal(t, "postgres", c.Dialect)
	})

	t.Run("falls back to default package", func(t *testing.T) {
		c := &Config{Target: filepath.Join(t.TempDir(), "my-repo")}
		require.NoError(t, c.Normalize())
		assert.Equal(t, DefaultPackage, c.Package)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		tests := []struct {
			name   string
			config Config
			option string
		}{
			{"dialect", Config{Dialect: "oracle"}, "Dialect"},
			{"naming", Config{Naming: "kebab"}, "Naming"},
			{"plural", Config{Plural: "latin"}, "Plural"},
			{"package", Config{Package: "my-repo"}, "Package"},
			{"workers", Config{Workers: -1}, "Workers"},
			{"files", Config{Files: Files{Repository: "sub/repository.go"}}, "Files"},
			{"same files", Config{Files: Files{Repository: "a.go", Adapter: "a.go"}}, "Files"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := tt.config
				c.Target = t.TempDir()
				if c.Package == "" {
					c.Package = "repo"
				}
				err := c.Normalize()
				require.Error(t, err)
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, tt.option, cfgErr.Option)
			})
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads all fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repogen.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
target: ./internal/store
package: store
dialect: sqlite
naming: capitalize
plural: inflect
header: "Source: schema.sql"
strict: true
workers: 2
files:
  repository: repo.go
  adapter: adapter.go
verify:
  driver: sqlite
  dsn: "file:verify?mode=memory"
`), 0o644))

		c, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "./internal/store", c.Target)
		assert.Equal(t, "store", c.Package)
		assert.Equal(t, "sqlite", c.Dialect)
		assert.Equal(t, NamingCapitalize, c.Naming)
		assert.Equal(t, PluralInflect, c.Plural)
		assert.Equal(t, "Source: schema.sql", c.Header)
		assert.True(t, c.Strict)
		assert.Equal(t, 2, c.Workers)
		assert.Equal(t, Files{Repository: "repo.go", Adapter: "adapter.go"}, c.Files)
		assert.Equal(t, Verify{Driver: "sqlite", DSN: "file:verify?mode=memory"}, c.Verify)
		assert.Nil(t, c.Storage)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repogen.yaml")
		require.NoError(t, os.WriteFile(path, []byte("target: [unclosed"), 0o644))
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}
