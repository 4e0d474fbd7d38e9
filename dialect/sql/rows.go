package sql

import (
	"strings"

	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/value"
)

// Rows implements dialect.Rows on top of a ColumnScanner.
type Rows struct {
	ColumnScanner
	cols   []dialect.Column
	closed bool
}

func newRows(cs ColumnScanner) (*Rows, error) {
	types, err := cs.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]dialect.Column, len(types))
	for i, ct := range types {
		cols[i] = dialect.Column{Name: ct.Name(), Kind: KindOf(ct.DatabaseTypeName())}
	}
	return &Rows{ColumnScanner: cs, cols: cols}, nil
}

// Columns implements the dialect.Rows method.
func (r *Rows) Columns() []dialect.Column {
	return r.cols
}

// Next implements the dialect.Rows method.
func (r *Rows) Next() bool {
	return !r.closed && r.ColumnScanner.Next()
}

// Row implements the dialect.Rows method.
func (r *Rows) Row() (dialect.Row, error) {
	raw := make([]any, len(r.cols))
	dest := make([]any, len(r.cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.Scan(dest...); err != nil {
		return dialect.Row{}, wrapError("scan", err)
	}
	vals := make([]value.Value, len(raw))
	for i, src := range raw {
		v, err := value.FromDriver(src)
		if err != nil {
			return dialect.Row{}, err
		}
		vals[i] = normalize(v, r.cols[i].Kind)
	}
	return dialect.NewRow(r.cols, vals)
}

// Err implements the dialect.Rows method.
func (r *Rows) Err() error {
	return wrapError("rows", r.ColumnScanner.Err())
}

// Close implements the dialect.Rows method.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return wrapError("close", r.ColumnScanner.Close())
}

// normalize converts values returned in textual form by text protocols
// (MySQL without prepared statements, numeric types on Postgres) into the
// kind the database declared for the column. Values that do not parse are
// kept as they are and rejected later by the codec.
func normalize(v value.Value, declared value.Kind) value.Value {
	if v.IsNull() || declared == value.KindInvalid || v.Kind() == declared {
		if v.IsNull() && declared != value.KindInvalid {
			return value.Null(declared)
		}
		return v
	}
	var s string
	switch p := v.Any().(type) {
	case []byte:
		if declared == value.KindBlob {
			return v
		}
		s = string(p)
	case string:
		if declared == value.KindText {
			return v
		}
		s = p
	default:
		return v
	}
	if n, err := value.ParseText(s, declared); err == nil {
		return n
	}
	return v
}

// KindOf maps a database column type name, as reported by
// sql.ColumnType.DatabaseTypeName, onto a value kind. Unknown types map to
// value.KindInvalid.
func KindOf(typeName string) value.Kind {
	t := strings.ToUpper(strings.TrimSpace(typeName))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT",
		"INT2", "INT4", "INT8", "SERIAL", "BIGSERIAL", "YEAR":
		return value.KindInt
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION", "DECIMAL", "NUMERIC":
		return value.KindFloat
	case "BOOL", "BOOLEAN":
		return value.KindBool
	case "TEXT", "VARCHAR", "CHAR", "NCHAR", "NVARCHAR", "CHARACTER", "CHARACTER VARYING",
		"BPCHAR", "CLOB", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "JSON", "ENUM", "NAME":
		return value.KindText
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return value.KindBlob
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return value.KindTime
	case "UUID":
		return value.KindUUID
	}
	return value.KindInvalid
}
