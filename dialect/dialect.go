package dialect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xhappyboy/bubble/value"
)

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two database operations. It is implemented by
// drivers and by the transactions they open.
type ExecQuerier interface {
	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, st Statement) (Result, error)
	// Query executes a statement and returns a lazy cursor over its rows.
	// The cursor is bound to the connection that issued it and must be
	// closed by the caller.
	Query(ctx context.Context, st Statement) (Rows, error)
	// Flavor returns the statement conventions of the connection.
	Flavor() Flavor
}

// Driver is the interface that wraps all necessary operations for the
// database connection.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Placeholder is the parameter marker style of a dialect.
type Placeholder uint8

// Placeholder styles.
const (
	Question Placeholder = iota // ?
	Dollar                      // $1, $2, ...
	Named                       // @p1, @p2, ...
)

// Render returns the marker of the n-th parameter, counting from 1.
func (p Placeholder) Render(n int) string {
	switch p {
	case Dollar:
		return "$" + strconv.Itoa(n)
	case Named:
		return "@p" + strconv.Itoa(n)
	}
	return "?"
}

// Flavor describes the statement conventions a driver expects.
type Flavor struct {
	Placeholder Placeholder
	// Returning reports support for INSERT ... RETURNING.
	Returning bool
	// EmptyInsert is the clause used to insert a row without explicit
	// columns. Defaults to "DEFAULT VALUES".
	EmptyInsert string
}

// FlavorOf returns the flavor of the named dialect.
func FlavorOf(name string) (Flavor, error) {
	switch name {
	case Postgres:
		return Flavor{Placeholder: Dollar, Returning: true}, nil
	case SQLite:
		return Flavor{Placeholder: Question}, nil
	case MySQL:
		return Flavor{Placeholder: Question, EmptyInsert: "() VALUES ()"}, nil
	}
	return Flavor{}, fmt.Errorf("dialect: unsupported dialect %q", name)
}

// Statement is a statement text with its positional arguments. Arguments are
// always bound by the driver, never interpolated into the text.
type Statement struct {
	Text string
	Args []value.Value
}

// Raw returns a statement built from caller supplied text. It is the escape
// hatch for statements the query builder does not produce; the text must use
// the placeholder style of the target driver.
func Raw(text string, args ...value.Value) Statement {
	return Statement{Text: text, Args: args}
}

// String returns the statement text followed by its arguments.
func (s Statement) String() string {
	if len(s.Args) == 0 {
		return s.Text
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return s.Text + " [" + strings.Join(args, ", ") + "]"
}

// Result is the outcome of Exec.
type Result struct {
	RowsAffected int64
	// LastInsertID is only meaningful when HasLastInsertID is set.
	LastInsertID    int64
	HasLastInsertID bool
}

// Column is the metadata of a result column.
type Column struct {
	Name string
	// Kind is the kind reported by the database for the column, or
	// value.KindInvalid if unknown.
	Kind value.Kind
}

// Rows is a forward-only cursor over the result of Query. It is not safe
// for concurrent use.
type Rows interface {
	// Next advances to the next row and reports whether there is one.
	Next() bool
	// Row returns the current row.
	Row() (Row, error)
	// Columns returns the result column metadata.
	Columns() []Column
	// Err returns the error, if any, that ended the iteration.
	Err() error
	// Close releases the cursor. It is safe to call more than once.
	Close() error
}
