// Package dialect defines the connection contract between generated code
// and database drivers.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// FlavorOf returns the statement conventions of a dialect: the placeholder
// style ("?", "$1" or "@p1") and whether INSERT ... RETURNING is available.
//
// # Driver Interface
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, st Statement) (Result, error)
//	    Query(ctx context.Context, st Statement) (Rows, error)
//	    Flavor() Flavor
//	}
//
//	type Driver interface {
//	    ExecQuerier
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Statements carry their arguments as value.Value; rows come back as Row
// values with column metadata, decoded by generated codecs.
//
// # Transactions
//
// Drivers wrap their transactions with GuardTx, which rejects use after
// Commit or Rollback and allows only Rollback after a failed statement:
//
//	tx, err := drv.Tx(ctx)
//	if err != nil {
//	    return err
//	}
//	if _, err := tx.Exec(ctx, dialect.Raw("UPDATE counter SET n = n + 1")); err != nil {
//	    return errors.Join(err, tx.Rollback())
//	}
//	return tx.Commit()
//
// # Raw Statements
//
// Raw builds a statement from caller supplied text for anything the query
// builder does not cover. Arguments are still bound, never interpolated.
package dialect
