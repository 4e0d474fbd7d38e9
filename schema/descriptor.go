package schema

import (
	"fmt"
	"strings"

	"github.com/0xhappyboy/bubble/value"
)

// Column describes how one struct field maps onto a table column.
type Column struct {
	Field      string     // Go field name
	Name       string     // column name
	Kind       value.Kind // stored value kind
	GoType     string     // canonical Go type of the field, e.g. "*string"
	Nullable   bool       // the field is a pointer and the column accepts NULL
	PrimaryKey bool
	Generated  bool // the key is assigned by the database on insert
}

// Descriptor is the table metadata of one annotated struct type. New copies
// the columns it is given. Descriptors are shared between goroutines and
// generated clients, so callers must not modify one or its columns after
// New returns.
type Descriptor struct {
	Name    string // Go type name
	Table   string
	Columns []*Column

	key    int
	byName map[string]int
}

// New validates the columns and returns the descriptor of type name stored in
// table. Generated code calls it once per type at package initialisation.
func New(name, table string, columns []*Column) (*Descriptor, error) {
	if len(columns) == 0 {
		return nil, typeError(name, "no mapped fields")
	}
	if !ValidIdentifier(table) {
		return nil, typeError(name, "invalid table name %q", table)
	}
	cols := make([]*Column, len(columns))
	for i, c := range columns {
		if c == nil {
			return nil, typeError(name, "nil column %d", i)
		}
		cp := *c
		cols[i] = &cp
	}
	columns = cols
	d := &Descriptor{
		Name:    name,
		Table:   table,
		Columns: columns,
		key:     -1,
		byName:  make(map[string]int, len(columns)),
	}
	var keys []string
	for i, c := range columns {
		if !ValidIdentifier(c.Name) {
			return nil, fieldError(name, c.Field, "invalid column name %q", c.Name)
		}
		if prev, ok := d.byName[c.Name]; ok {
			return nil, fieldError(name, c.Field, "column %q already used by field %s", c.Name, columns[prev].Field)
		}
		if !c.Kind.Valid() {
			return nil, fieldError(name, c.Field, "invalid value kind %d", c.Kind)
		}
		if c.Generated && !c.PrimaryKey {
			return nil, fieldError(name, c.Field, "only the primary key can be generated")
		}
		if c.PrimaryKey {
			if c.Nullable {
				return nil, fieldError(name, c.Field, "primary key cannot be nullable")
			}
			keys = append(keys, c.Field)
			d.key = i
		}
		d.byName[c.Name] = i
	}
	switch len(keys) {
	case 0:
		return nil, typeError(name, "no primary key")
	case 1:
	default:
		return nil, typeError(name, "multiple primary keys %v", keys)
	}
	return d, nil
}

// Must is a helper that wraps a call to New and panics if the error is non-nil.
func Must(d *Descriptor, err error) *Descriptor {
	if err != nil {
		panic(err)
	}
	return d
}

// PrimaryKey returns the key column.
func (d *Descriptor) PrimaryKey() *Column {
	return d.Columns[d.key]
}

// KeyIndex returns the position of the key column.
func (d *Descriptor) KeyIndex() int {
	return d.key
}

// Column returns the column with the given name.
func (d *Descriptor) Column(name string) (*Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return d.Columns[i], true
}

// ColumnNames returns the column names in declaration order.
func (d *Descriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Insertable returns the positions of the columns an insert writes: every
// column except a generated key.
func (d *Descriptor) Insertable() []int {
	idx := make([]int, 0, len(d.Columns))
	for i, c := range d.Columns {
		if !c.Generated {
			idx = append(idx, i)
		}
	}
	return idx
}

// Updatable returns the positions of the columns an update writes: every
// column except the key.
func (d *Descriptor) Updatable() []int {
	idx := make([]int, 0, len(d.Columns))
	for i, c := range d.Columns {
		if !c.PrimaryKey {
			idx = append(idx, i)
		}
	}
	return idx
}

// String returns a short summary such as "User(user: id, name, email)".
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%s: %s)", d.Name, d.Table, strings.Join(d.ColumnNames(), ", "))
}
