package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/repogen/compiler/gen"
)

// Generate is a convenience function to render and write the artifacts of
// g with the SQL dialect. It returns the paths of the written files.
//
// Example:
//
//	import "github.com/syssam/repogen/compiler/gen/sql"
//	paths, err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) ([]string, error) {
	if g.Config == nil || g.Config.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	generator := gen.NewJenniferGenerator(g, g.Config.Target)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate(ctx)
}

// Dialect implements gen.MinimalDialect for database/sql backends.
// Placeholder style follows the storage driver of the graph.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sql"
}

// GenEntity generates the entity file ({table}.go).
func (d *Dialect) GenEntity(t *gen.Type) *jen.File {
	return genEntity(d.helper, t)
}

// GenRepository generates the interface file (repository.go).
func (d *Dialect) GenRepository() *jen.File {
	return genRepository(d.helper)
}

// GenAdapter generates the adapter file ({dialect}_adapter.go).
func (d *Dialect) GenAdapter() *jen.File {
	return genAdapter(d.helper)
}

// Ensure Dialect implements gen.MinimalDialect.
var _ gen.MinimalDialect = (*Dialect)(nil)
