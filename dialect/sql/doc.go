// Package sql implements the dialect interfaces on top of database/sql for
// MySQL, PostgreSQL and SQLite.
//
// # Opening a driver
//
// The dialect name is also the database/sql driver name, so the matching
// driver package must be imported:
//
//	import (
//	    _ "github.com/lib/pq"
//
//	    "github.com/0xhappyboy/bubble/dialect"
//	    "github.com/0xhappyboy/bubble/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/app?sslmode=disable")
//
// An existing *sql.DB is wrapped with OpenDB. Drivers with other parameter
// conventions can be adapted with NewConn and a dialect.Flavor.
//
// # Values
//
// Statement arguments are bound from their value payloads; UUIDs are sent
// in their text form. Result values are converted with value.FromDriver, and
// values returned as text by text protocols are parsed into the kind the
// database declares for the column (see KindOf).
//
// # Errors
//
// Driver errors are returned as *bubble.Error values. Context deadlines and
// the driver specific lock and statement timeouts map to bubble.ErrTimeout,
// use of a finished transaction maps to bubble.ErrInvalidState and anything
// else to bubble.ErrDriver. The driver error stays reachable with errors.As,
// and IsUniqueConstraintError and friends classify constraint violations.
//
// # Session variables
//
// WithVar attaches session variables to a context. They are set on the
// connection before each statement and reset afterwards:
//
//	ctx = sql.WithVar(ctx, "statement_timeout", "5s")
//
// # Instrumentation
//
// NewStatsDriver counts statements, errors, timeouts and slow statements.
// NewDebugDriver logs every statement with its arguments through log/slog.
package sql
