package gen

import "github.com/dave/jennifer/jen"

// =============================================================================
// Interface Segregation: artifacts are rendered by small, focused interfaces
// =============================================================================

// EntityGenerator generates per-table code.
// Each method is called once per type in the graph.
type EntityGenerator interface {
	// GenEntity generates the entity struct and constructor ({table}.go)
	GenEntity(t *Type) *jen.File
}

// GraphGenerator generates graph-level code.
// Each method is called once per generation run.
type GraphGenerator interface {
	// GenRepository generates the data-access interface (repository.go)
	GenRepository() *jen.File
	// GenAdapter generates the database/sql implementation ({dialect}_adapter.go)
	GenAdapter() *jen.File
}

// MinimalDialect requires entity and graph generation.
// This is the interface a dialect must implement.
type MinimalDialect interface {
	// Name returns the dialect name (e.g., "sql")
	Name() string
	EntityGenerator
	GraphGenerator
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile(pkg string) *jen.File

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// Storage returns the storage driver the adapter is rendered for.
	Storage() *Storage
}
