// Package sql renders the database/sql data-access layer with Jennifer.
//
// The dialect produces three kinds of files that are kept consistent by
// rendering all of them from the same gen.Type values:
//
//   - repository.go: the Repository interface with a create, get-one and
//     get-all method per table, ErrNotImplemented and UnimplementedRepository
//   - {dialect}_adapter.go: PostgresAdapter or SQLiteAdapter, implementing
//     Repository on a *sql.DB
//   - {table}.go: the entity struct and its constructor
//
// # Query Text
//
// InsertQuery, SelectOneQuery and SelectAllQuery build the statements the
// adapter embeds. They list columns in declaration order, so the INSERT
// column list, the bound arguments and the positional mapping of selected
// values to entity fields always agree. The same functions are used by the
// compiler/verify package to run the queries against a live database.
//
// # Usage
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithDialect(sql.NewDialect(generator))
//	paths, err := generator.Generate(ctx)
package sql
