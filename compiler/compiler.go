// Package compiler runs the repogen pipeline: it loads a schema file, builds
// the naming graph and renders the repository, adapter and entity files.
//
//	res, err := compiler.Generate(ctx, "schema.sql", cfg)
//	if err != nil {
//		return err
//	}
//	for _, d := range res.Diagnostics {
//		log.Warn(d)
//	}
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/gen/sql"
	"github.com/syssam/repogen/compiler/load"
)

// Result reports the outcome of a generation pass.
type Result struct {
	// Files holds the paths of the generated files, in render order.
	Files []string
	// Tables holds the tables the files were generated from.
	Tables []*load.Table
	// Diagnostics holds the statements that were skipped.
	Diagnostics []load.Diagnostic
	// Metrics holds the write statistics of the pass.
	Metrics gen.WriterMetrics
}

// Load parses the schema at schemaPath and builds its graph. A nil cfg
// means the default configuration. In strict mode a skipped statement
// fails the load.
func Load(schemaPath string, cfg *gen.Config) (*gen.Graph, []load.Diagnostic, error) {
	if cfg == nil {
		var err error
		if cfg, err = gen.NewConfig(); err != nil {
			return nil, nil, err
		}
	}
	res, err := load.ParseFile(schemaPath)
	if err != nil {
		var perr *load.ParseError
		if errors.As(err, &perr) {
			return nil, nil, gen.NewSchemaError(perr.Table, "", perr.Pos, perr.Err)
		}
		return nil, nil, err
	}
	if cfg.Strict && len(res.Diagnostics) > 0 {
		errs := make([]error, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			errs[i] = errors.New(d.String())
		}
		return nil, res.Diagnostics, gen.NewSchemaError("", "", fmt.Sprintf("%d statement(s) skipped in strict mode", len(errs)), errors.Join(errs...))
	}
	g, err := gen.NewGraph(cfg, res.Tables...)
	if err != nil {
		return nil, res.Diagnostics, err
	}
	return g, res.Diagnostics, nil
}

// Generate loads the schema at schemaPath and writes the generated files
// into the configured target. Nothing is written unless every file
// rendered.
func Generate(ctx context.Context, schemaPath string, cfg *gen.Config) (*Result, error) {
	g, diags, err := Load(schemaPath, cfg)
	if err != nil {
		return &Result{Diagnostics: diags}, err
	}
	generator := gen.NewJenniferGenerator(g, g.Target)
	generator.WithDialect(sql.NewDialect(generator))
	files, err := generator.Generate(ctx)
	return &Result{
		Files:       files,
		Tables:      g.Tables(),
		Diagnostics: diags,
		Metrics:     generator.Metrics(),
	}, err
}
