package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the structured errors below.
var (
	ErrInvalidSchema    = errors.New("repogen: invalid schema")
	ErrInvalidConfig    = errors.New("repogen: invalid configuration")
	ErrGenerationFailed = errors.New("repogen: code generation failed")
	// ErrValidationFailed is matched by errors from the query verifier.
	ErrValidationFailed = errors.New("repogen: validation failed")
)

// detail is one optional part of an error message, skipped when value is empty.
type detail struct {
	format string
	value  string
}

func errorString(kind string, details []detail, message string, cause error) string {
	var b strings.Builder
	b.WriteString("repogen: " + kind + " error")
	for _, d := range details {
		if d.value != "" {
			fmt.Fprintf(&b, d.format, d.value)
		}
	}
	for _, s := range []string{message, errText(cause)} {
		if s != "" {
			b.WriteString(": " + s)
		}
	}
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// SchemaError is returned for a table or column that cannot be turned into
// Go code.
type SchemaError struct {
	Table   string
	Column  string
	Message string
	Cause   error
}

func NewSchemaError(table, column, message string, cause error) *SchemaError {
	return &SchemaError{Table: table, Column: column, Message: message, Cause: cause}
}

func (e *SchemaError) Error() string {
	return errorString("schema", []detail{{" on table %s", e.Table}, {" column %s", e.Column}}, e.Message, e.Cause)
}

func (e *SchemaError) Unwrap() error        { return e.Cause }
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// ConfigError is returned for an option value that cannot be used.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("repogen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("repogen: config error for %q: %s", e.Option, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// GenerationError is returned when an artifact cannot be rendered or
// written. Phase is "repository", "adapter", "entity" or "write".
type GenerationError struct {
	Phase   string
	File    string
	Message string
	Cause   error
}

func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

func (e *GenerationError) Error() string {
	return errorString("generation", []detail{{" in phase %s", e.Phase}, {" (file: %s)", e.File}}, e.Message, e.Cause)
}

func (e *GenerationError) Unwrap() error        { return e.Cause }
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// ValidationError reports a generated query that misbehaved against a real
// backend, for example a column that read back at the wrong position.
type ValidationError struct {
	Table   string
	Column  string
	Value   any
	Message string
	Cause   error
}

func NewValidationError(table, column string, value any, message string, cause error) *ValidationError {
	return &ValidationError{Table: table, Column: column, Value: value, Message: message, Cause: cause}
}

func (e *ValidationError) Error() string {
	return errorString("validation", []detail{{" on table %s", e.Table}, {" column %s", e.Column}}, e.Message, e.Cause)
}

func (e *ValidationError) Unwrap() error        { return e.Cause }
func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
