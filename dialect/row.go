package dialect

import (
	"fmt"

	"github.com/0xhappyboy/bubble/value"
)

// Row is one result row: the column metadata and the values in column order.
type Row struct {
	cols []Column
	vals []value.Value
}

// NewRow returns a row. cols and vals must have the same length.
func NewRow(cols []Column, vals []value.Value) (Row, error) {
	if len(cols) != len(vals) {
		return Row{}, fmt.Errorf("dialect: row has %d columns but %d values", len(cols), len(vals))
	}
	return Row{cols: cols, vals: vals}, nil
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.vals) }

// Columns returns the column metadata.
func (r Row) Columns() []Column { return r.cols }

// Value returns the i-th value.
func (r Row) Value(i int) value.Value { return r.vals[i] }

// Get returns the value of the named column. Names are matched exactly;
// if a name appears more than once the first match wins.
func (r Row) Get(name string) (value.Value, bool) {
	for i, c := range r.cols {
		if c.Name == name {
			return r.vals[i], true
		}
	}
	return value.Value{}, false
}
