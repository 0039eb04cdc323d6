// Package gen provides the naming model and the code generation pipeline
// that turns table descriptors into a data-access layer.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Schema file (CREATE TABLE ...)
//	        ↓
//	   load.Table descriptors
//	        ↓
//	   Graph (types, columns, names)
//	        ↓
//	   MinimalDialect (repository, adapter, entities)
//	        ↓
//	   Generated code (target directory)
//
// # Key Types
//
//   - Graph: Holds all Type definitions with validation
//   - Type: One table, its entity name and method names
//   - Column: Column with struct field and parameter names
//   - Config: Global configuration for code generation
//   - Storage: The database/sql backend the adapter targets
//
// Every generated artifact derives its names and its column order from the
// same Type, which keeps the interface, the adapter and the entities in
// agreement.
//
// # Interface Hierarchy
//
//	MinimalDialect
//	├── Name() string
//	├── EntityGenerator
//	│   └── GenEntity
//	└── GraphGenerator
//	    └── GenRepository, GenAdapter
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: Table or column definitions that cannot be rendered
//   - ConfigError: Configuration errors
//   - GenerationError: Rendering and write errors
//   - ValidationError: Generated queries that misbehave against a database
//
// Example error handling:
//
//	if _, err := generator.Generate(ctx); err != nil {
//	    var schemaErr *gen.SchemaError
//	    if errors.As(err, &schemaErr) {
//	        log.Printf("table %s: %s", schemaErr.Table, schemaErr.Message)
//	    }
//	}
package gen
