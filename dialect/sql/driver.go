package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/value"
)

// Driver is a dialect.Driver implementation for SQL based databases.
type Driver struct {
	Conn
}

// NewDriver creates a new Driver with the given Conn.
func NewDriver(c Conn) *Driver {
	return &Driver{Conn: c}
}

// Open wraps the database/sql.Open method and returns a Driver for the named
// dialect. The dialect name is also the database/sql driver name.
func Open(dialectName, source string) (*Driver, error) {
	flavor, err := dialect.FlavorOf(dialectName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialectName, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", dialectName, err)
	}
	return NewDriver(Conn{ExecQuerier: db, dialect: dialectName, flavor: flavor}), nil
}

// OpenDB wraps the given database/sql.DB with a Driver. It panics if the
// dialect is unknown.
func OpenDB(dialectName string, db *sql.DB) *Driver {
	flavor, err := dialect.FlavorOf(dialectName)
	if err != nil {
		panic(err)
	}
	return NewDriver(Conn{ExecQuerier: db, dialect: dialectName, flavor: flavor})
}

// DB returns the underlying *sql.DB instance.
func (d Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect implements the dialect.Driver method.
func (d Driver) Dialect() string {
	return d.dialect
}

// Tx starts and returns a transaction.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options. The returned transaction is
// guarded by dialect.GuardTx.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, wrapError("begin", err)
	}
	return dialect.GuardTx(&Tx{
		Conn: Conn{ExecQuerier: tx, dialect: d.dialect, flavor: d.flavor},
		tx:   tx,
	}), nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }

// Tx implements the dialect.Tx interface.
type Tx struct {
	Conn
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return wrapError("commit", t.tx.Commit())
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return wrapError("rollback", t.tx.Rollback())
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn implements dialect.ExecQuerier given ExecQuerier.
type Conn struct {
	ExecQuerier
	dialect string
	flavor  dialect.Flavor
}

// NewConn returns a Conn for a dialect that FlavorOf does not know, such as
// a database/sql driver using named parameters.
func NewConn(ex ExecQuerier, dialectName string, flavor dialect.Flavor) Conn {
	return Conn{ExecQuerier: ex, dialect: dialectName, flavor: flavor}
}

// Flavor implements the dialect.ExecQuerier method.
func (c Conn) Flavor() dialect.Flavor {
	return c.flavor
}

// Exec implements the dialect.ExecQuerier method.
func (c Conn) Exec(ctx context.Context, st dialect.Statement) (res dialect.Result, rerr error) {
	ex, cf, err := c.maySetVars(ctx)
	if err != nil {
		return res, wrapError("exec", fmt.Errorf("set session vars: %w", err))
	}
	if cf != nil {
		defer func() { rerr = errors.Join(rerr, cf()) }()
	}
	r, err := ex.ExecContext(ctx, st.Text, c.args(st.Args)...)
	if err != nil {
		return res, wrapError("exec", err)
	}
	if res.RowsAffected, err = r.RowsAffected(); err != nil {
		return res, wrapError("exec", err)
	}
	// Drivers without LastInsertId support report an error here.
	if id, err := r.LastInsertId(); err == nil {
		res.LastInsertID, res.HasLastInsertID = id, true
	}
	return res, nil
}

// Query implements the dialect.ExecQuerier method.
func (c Conn) Query(ctx context.Context, st dialect.Statement) (dialect.Rows, error) {
	ex, cf, err := c.maySetVars(ctx)
	if err != nil {
		return nil, wrapError("query", fmt.Errorf("set session vars: %w", err))
	}
	rows, err := ex.QueryContext(ctx, st.Text, c.args(st.Args)...)
	if err != nil {
		if cf != nil {
			err = errors.Join(err, cf())
		}
		return nil, wrapError("query", err)
	}
	var cs ColumnScanner = rows
	if cf != nil {
		cs = rowsWithCloser{rows, cf}
	}
	r, err := newRows(cs)
	if err != nil {
		return nil, wrapError("query", errors.Join(err, cs.Close()))
	}
	return r, nil
}

// args converts the statement arguments into driver values. The named
// placeholder style binds them as sql.Named("p1", ...), "p2", and so on.
func (c Conn) args(vals []value.Value) []any {
	argv := make([]any, len(vals))
	for i, v := range vals {
		if c.flavor.Placeholder == dialect.Named {
			argv[i] = sql.Named(fmt.Sprintf("p%d", i+1), v.Any())
			continue
		}
		argv[i] = v.Any()
	}
	return argv
}

// varNameRe validates session variable names (alphanumeric, underscores,
// dots for scoped names).
var varNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

type ctxVarsKey struct{}

type sessionVar struct{ name, value string }

// WithVar returns a new context that holds a session variable to set before
// every statement, for example a per-request statement_timeout on Postgres.
func WithVar(ctx context.Context, name, value string) context.Context {
	vars, _ := ctx.Value(ctxVarsKey{}).([]sessionVar)
	vars = append(vars[:len(vars):len(vars)], sessionVar{name, value})
	return context.WithValue(ctx, ctxVarsKey{}, vars)
}

// VarFromContext returns the session variable value from the context.
func VarFromContext(ctx context.Context, name string) (string, bool) {
	vars, _ := ctx.Value(ctxVarsKey{}).([]sessionVar)
	for i := len(vars) - 1; i >= 0; i-- {
		if vars[i].name == name {
			return vars[i].value, true
		}
	}
	return "", false
}

// maySetVars sets the session variables of ctx before a statement. Outside a
// transaction it pins a pooled connection and returns a function that resets
// the variables and releases it.
func (c Conn) maySetVars(ctx context.Context) (ExecQuerier, func() error, error) {
	vars, _ := ctx.Value(ctxVarsKey{}).([]sessionVar)
	if len(vars) == 0 {
		return c.ExecQuerier, nil, nil
	}
	var (
		ex    ExecQuerier
		cf    func() error
		reset []string
		seen  = make(map[string]bool, len(vars))
	)
	switch e := c.ExecQuerier.(type) {
	case *sql.Tx:
		ex = e
	case *sql.DB:
		conn, err := e.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		ex, cf = conn, conn.Close
	default:
		return nil, nil, fmt.Errorf("unsupported ExecQuerier type: %T", c.ExecQuerier)
	}
	release := func(err error) error {
		if cf != nil {
			return errors.Join(err, cf())
		}
		return err
	}
	for _, v := range vars {
		if !varNameRe.MatchString(v.name) || len(v.name) > 128 {
			return nil, nil, release(fmt.Errorf("invalid session variable name: %q", v.name))
		}
		if !seen[v.name] {
			seen[v.name] = true
			switch c.dialect {
			case dialect.Postgres:
				reset = append(reset, "RESET "+v.name)
			case dialect.MySQL:
				reset = append(reset, "SET "+v.name+" = NULL")
			}
		}
		quoted := "'" + strings.ReplaceAll(strings.ReplaceAll(v.value, `\`, `\\`), "'", "''") + "'"
		if _, err := ex.ExecContext(ctx, "SET "+v.name+" = "+quoted); err != nil {
			return nil, nil, release(err)
		}
	}
	if closeConn := cf; cf != nil && len(reset) > 0 {
		cf = func() error {
			// The statement context may already be done.
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for _, q := range reset {
				if _, err := ex.ExecContext(rctx, q); err != nil {
					return errors.Join(err, closeConn())
				}
			}
			return closeConn()
		}
	}
	return ex, cf, nil
}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)

// TxOptions holds the transaction options to be used in DB.BeginTx.
type TxOptions = sql.TxOptions

// ColumnScanner is the interface that wraps the standard sql.Rows methods
// used for reading result rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// rowsWithCloser wraps the ColumnScanner interface with a custom Close hook.
type rowsWithCloser struct {
	ColumnScanner
	closer func() error
}

// Close closes the underlying ColumnScanner and calls the custom closer.
func (r rowsWithCloser) Close() error {
	err := r.ColumnScanner.Close()
	return errors.Join(err, r.closer())
}
