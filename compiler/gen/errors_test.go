package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError("document", "url", "invalid name", cause)

		assert.Contains(t, err.Error(), "repogen: schema error")
		assert.Contains(t, err.Error(), "table document")
		assert.Contains(t, err.Error(), "column url")
		assert.Contains(t, err.Error(), "invalid name")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with table only", func(t *testing.T) {
		err := &SchemaError{Table: "document"}
		assert.Equal(t, "repogen: schema error on table document", err.Error())
	})

	t.Run("Error message parts are joined in order", func(t *testing.T) {
		err := NewSchemaError("document", "url", "invalid name", errors.New("cause"))
		assert.Equal(t, "repogen: schema error on table document column url: invalid name: cause", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("document", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError("document", "", "", nil)
		assert.True(t, err.Is(ErrInvalidSchema))
		assert.True(t, errors.Is(err, ErrInvalidSchema))
	})

	t.Run("IsSchemaError helper", func(t *testing.T) {
		err := NewSchemaError("document", "url", "test", nil)
		assert.True(t, IsSchemaError(err))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Dialect", "oracle", "unsupported dialect")

		assert.Contains(t, err.Error(), "repogen: config error")
		assert.Contains(t, err.Error(), "Dialect")
		assert.Contains(t, err.Error(), "oracle")
		assert.Contains(t, err.Error(), "unsupported dialect")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("write failed")
		err := NewGenerationError("entity", "document.go", "cannot write file", cause)

		assert.Contains(t, err.Error(), "repogen: generation error")
		assert.Contains(t, err.Error(), "phase entity")
		assert.Contains(t, err.Error(), "file: document.go")
		assert.Contains(t, err.Error(), "cannot write file")
		assert.Contains(t, err.Error(), "write failed")
	})

	t.Run("Error message with phase only", func(t *testing.T) {
		err := &GenerationError{Phase: "adapter"}
		assert.Equal(t, "repogen: generation error in phase adapter", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("io error")
		err := NewGenerationError("write", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrGenerationFailed", func(t *testing.T) {
		err := NewGenerationError("entity", "", "", nil)
		assert.True(t, err.Is(ErrGenerationFailed))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewValidationError("document", "url", "url-probe", "read back at position 2", nil)

		assert.Contains(t, err.Error(), "repogen: validation error")
		assert.Contains(t, err.Error(), "table document")
		assert.Contains(t, err.Error(), "column url")
		assert.Contains(t, err.Error(), "read back at position 2")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("no such table")
		err := NewValidationError("document", "", nil, "insert", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrValidationFailed))
	})
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isSchema bool
		isConfig bool
		isGen    bool
		isVal    bool
	}{
		{
			name:     "SchemaError",
			err:      NewSchemaError("document", "", "", nil),
			isSchema: true,
		},
		{
			name:     "ConfigError",
			err:      NewConfigError("Package", nil, ""),
			isConfig: true,
		},
		{
			name:  "GenerationError",
			err:   NewGenerationError("entity", "", "", nil),
			isGen: true,
		},
		{
			name:  "ValidationError",
			err:   NewValidationError("document", "id", nil, "", nil),
			isVal: true,
		},
		{
			name: "Other error",
			err:  errors.New("other"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isSchema, IsSchemaError(tt.err))
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isGen, IsGenerationError(tt.err))
			assert.Equal(t, tt.isVal, IsValidationError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	t.Run("As SchemaError", func(t *testing.T) {
		err := NewSchemaError("document", "url", "invalid", nil)
		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "document", schemaErr.Table)
		assert.Equal(t, "url", schemaErr.Column)
	})

	t.Run("As GenerationError", func(t *testing.T) {
		err := NewGenerationError("entity", "document.go", "failed", nil)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "entity", genErr.Phase)
		assert.Equal(t, "document.go", genErr.File)
	})
}
