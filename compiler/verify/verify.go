// Package verify runs the queries embedded in a generated adapter against a
// real database and checks that they behave as the generated code expects:
// RETURNING yields the bound identifier and selected values come back at the
// positions the entity mapping reads them from.
//
// All work happens inside one transaction that is rolled back, so a
// verification leaves no tables or rows behind.
package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/repogen/compiler/gen"
	sqlgen "github.com/syssam/repogen/compiler/gen/sql"
)

const (
	// MemoryDSN is the DSN used for sqlite when none is configured.
	MemoryDSN = ":memory:"

	pingTimeout = 5 * time.Second
	savepoint   = "repogen_verify"
)

// Open opens and pings the database a verification runs against. An empty
// sqlite DSN opens a private in-memory database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	s, err := gen.NewStorage(driver)
	if err != nil {
		return nil, gen.NewConfigError("Verify.Driver", driver, err.Error())
	}
	if dsn == "" {
		if s.Name != "sqlite" {
			return nil, gen.NewConfigError("Verify.DSN", dsn, s.Name+" requires a DSN")
		}
		dsn = MemoryDSN
	}
	db, err := sql.Open(s.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("verify: failed to open database connection: %w", err)
	}
	if s.Name == "sqlite" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verify: unable to reach database: %w", err)
	}
	return db, nil
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithIDFunc sets the function that produces probe identifiers.
// Defaults to uuid.NewString.
func WithIDFunc(fn func() string) Option {
	return func(v *Verifier) {
		v.idFunc = fn
	}
}

// WithProgress registers fn to be called after each table with the table
// name and its verification error, if any.
func WithProgress(fn func(table string, err error)) Option {
	return func(v *Verifier) {
		v.progress = fn
	}
}

// WithShadowTables makes the verifier create every table with text columns
// only, instead of running its CREATE TABLE statement. Use it when column
// types or foreign keys reject probe values.
func WithShadowTables(shadow bool) Option {
	return func(v *Verifier) {
		v.shadow = shadow
	}
}

// Verifier checks generated queries against a database.
type Verifier struct {
	db       *sql.DB
	storage  *gen.Storage
	idFunc   func() string
	progress func(string, error)
	shadow   bool
}

// New returns a Verifier that runs queries for storage s on db.
func New(db *sql.DB, s *gen.Storage, opts ...Option) *Verifier {
	v := &Verifier{
		db:      db,
		storage: s,
		idFunc:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run verifies every table of g in schema order. A table that fails does
// not stop the run; all failures are returned joined.
func (v *Verifier) Run(ctx context.Context, g *gen.Graph) (err error) {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("verify: begin transaction: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("verify: rollback: %w", rerr))
		}
	}()

	var errs []error
	for _, t := range g.Nodes {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		terr := v.table(ctx, tx, t)
		if v.progress != nil {
			v.progress(t.Table(), terr)
		}
		if terr != nil {
			errs = append(errs, terr)
		}
	}
	return errors.Join(errs...)
}

// table verifies t inside a savepoint. A failed table is rolled back to the
// savepoint so that the transaction stays usable for the next one.
func (v *Verifier) table(ctx context.Context, tx *sql.Tx, t *gen.Type) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return gen.NewValidationError(t.Table(), "", nil, "create savepoint", err)
	}
	err := v.probe(ctx, tx, t)
	if err != nil {
		if _, rerr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rerr != nil {
			return errors.Join(err, rerr)
		}
	}
	if _, rerr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

func (v *Verifier) probe(ctx context.Context, tx *sql.Tx, t *gen.Type) error {
	create := t.Statement()
	if v.shadow || create == "" {
		create = ShadowStatement(t)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return gen.NewValidationError(t.Table(), "", nil, "create table", err)
	}

	values := ProbeValues(t, v.idFunc())
	args := make([]any, len(values))
	for i, val := range values {
		args[i] = val
	}

	var returned sql.NullString
	if err := tx.QueryRowContext(ctx, sqlgen.InsertQuery(t, v.storage), args...).Scan(&returned); err != nil {
		return gen.NewValidationError(t.Table(), "", nil, "insert probe row", err)
	}
	if !returned.Valid || returned.String != values[0] {
		return gen.NewValidationError(t.Table(), t.ID.Name, returned.String, fmt.Sprintf("RETURNING yields %q, want %q", returned.String, values[0]), nil)
	}

	rows, err := query(ctx, tx, sqlgen.SelectOneQuery(t, v.storage), values[0])
	if err != nil {
		return gen.NewValidationError(t.Table(), "", nil, "select probe row", err)
	}
	if len(rows) != 1 {
		return gen.NewValidationError(t.Table(), t.ID.Name, values[0], fmt.Sprintf("lookup returned %d rows, want 1", len(rows)), nil)
	}
	if err := compare(t, rows[0], values); err != nil {
		return err
	}

	rows, err = query(ctx, tx, sqlgen.SelectAllQuery(t))
	if err != nil {
		return gen.NewValidationError(t.Table(), "", nil, "select all rows", err)
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == values[0] {
			return compare(t, row, values)
		}
	}
	return gen.NewValidationError(t.Table(), t.ID.Name, values[0], "probe row missing from the get-all result", nil)
}

// compare checks that every column reads back at its declaration position.
func compare(t *gen.Type, row, want []string) error {
	if len(row) != len(want) {
		return gen.NewValidationError(t.Table(), "", nil, fmt.Sprintf("query returned %d columns, want %d", len(row), len(want)), nil)
	}
	for i, c := range t.Columns {
		if row[i] != want[i] {
			return gen.NewValidationError(t.Table(), c.Name, row[i], fmt.Sprintf("position %d reads %q, want %q", i, row[i], want[i]), nil)
		}
	}
	return nil
}

// query mirrors the generated retrieval helper: every value is scanned as
// a nullable string and NULL reads as the empty string.
func query(ctx context.Context, tx *sql.Tx, q string, args ...any) ([][]string, error) {
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = v.String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ProbeValues returns the values bound for the probe row of t, in column
// order. The identifying column gets id; every other column its own name
// with a "-probe" suffix, so a value read from the wrong position is
// detected.
func ProbeValues(t *gen.Type, id string) []string {
	values := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if c.IsID() {
			values[i] = id
		} else {
			values[i] = c.Name + "-probe"
		}
	}
	return values
}

// ShadowStatement returns a CREATE TABLE statement declaring the columns
// of t as text.
func ShadowStatement(t *gen.Type) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = c.Ident + " TEXT"
	}
	return "CREATE TABLE " + t.TableIdent() + " (" + strings.Join(defs, ", ") + ")"
}
