package query

import (
	"strings"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// Builder accumulates a statement text and its bound arguments. Values are
// only ever written as placeholders.
type Builder struct {
	sb   strings.Builder
	args []value.Value
	ph   dialect.Placeholder
}

// NewBuilder returns a builder that renders placeholders in the style of
// the given flavor.
func NewBuilder(fl dialect.Flavor) *Builder {
	return &Builder{ph: fl.Placeholder}
}

// WriteString appends s to the statement text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg appends a placeholder for v and binds it.
func (b *Builder) Arg(v value.Value) *Builder {
	b.args = append(b.args, v)
	b.sb.WriteString(b.ph.Render(len(b.args)))
	return b
}

// Idents appends the identifiers separated by commas.
func (b *Builder) Idents(names ...string) *Builder {
	for i, n := range names {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(n)
	}
	return b
}

// Where appends a WHERE clause for the conditions, joined with AND. Nothing
// is written when there are no conditions.
func (b *Builder) Where(conds ...Cond) *Builder {
	for i, c := range conds {
		if i == 0 {
			b.sb.WriteString(" WHERE ")
		} else {
			b.sb.WriteString(" AND ")
		}
		b.sb.WriteString(c.Column)
		b.sb.WriteString(" = ")
		b.Arg(c.Value)
	}
	return b
}

// Statement returns the built statement.
func (b *Builder) Statement() dialect.Statement {
	return dialect.Statement{Text: b.sb.String(), Args: b.args}
}

// Insert returns the statement inserting one row. vals holds one value per
// descriptor column, in column order; the value of a generated key is
// ignored. With a RETURNING capable flavor the generated key is returned as
// the single result column.
func Insert(desc *schema.Descriptor, fl dialect.Flavor, vals []value.Value) (dialect.Statement, error) {
	if err := checkValues(desc, vals); err != nil {
		return dialect.Statement{}, err
	}
	b := NewBuilder(fl)
	b.WriteString("INSERT INTO ").WriteString(desc.Table)
	idx := desc.Insertable()
	if len(idx) == 0 {
		empty := fl.EmptyInsert
		if empty == "" {
			empty = "DEFAULT VALUES"
		}
		b.WriteString(" ").WriteString(empty)
	} else {
		b.WriteString(" (")
		for i, j := range idx {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(desc.Columns[j].Name)
		}
		b.WriteString(") VALUES (")
		for i, j := range idx {
			if i > 0 {
				b.WriteString(", ")
			}
			b.Arg(vals[j])
		}
		b.WriteString(")")
	}
	if pk := desc.PrimaryKey(); pk.Generated && fl.Returning {
		b.WriteString(" RETURNING ").WriteString(pk.Name)
	}
	return b.Statement(), nil
}

// Select returns the statement selecting all columns of the rows matching
// the conditions.
func Select(desc *schema.Descriptor, fl dialect.Flavor, conds ...Cond) (dialect.Statement, error) {
	if err := checkConds(desc, conds); err != nil {
		return dialect.Statement{}, err
	}
	b := NewBuilder(fl)
	b.WriteString("SELECT ").Idents(desc.ColumnNames()...).WriteString(" FROM ").WriteString(desc.Table)
	return b.Where(conds...).Statement(), nil
}

// SelectByKey returns the statement selecting the row with the given key.
func SelectByKey(desc *schema.Descriptor, fl dialect.Flavor, key value.Value) (dialect.Statement, error) {
	c, err := keyCond(desc, key)
	if err != nil {
		return dialect.Statement{}, err
	}
	return Select(desc, fl, c)
}

// Update returns the statement writing every non-key column of one row,
// filtered by its key. vals is laid out as for Insert.
func Update(desc *schema.Descriptor, fl dialect.Flavor, vals []value.Value) (dialect.Statement, error) {
	if err := checkValues(desc, vals); err != nil {
		return dialect.Statement{}, err
	}
	idx := desc.Updatable()
	if len(idx) == 0 {
		return dialect.Statement{}, bubble.Errorf(bubble.KindInvalidState, "%s has no columns to update", desc.Name)
	}
	key, err := keyCond(desc, vals[desc.KeyIndex()])
	if err != nil {
		return dialect.Statement{}, err
	}
	b := NewBuilder(fl)
	b.WriteString("UPDATE ").WriteString(desc.Table).WriteString(" SET ")
	for i, j := range idx {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(desc.Columns[j].Name).WriteString(" = ").Arg(vals[j])
	}
	return b.Where(key).Statement(), nil
}

// Delete returns the statement deleting the row with the given key.
func Delete(desc *schema.Descriptor, fl dialect.Flavor, key value.Value) (dialect.Statement, error) {
	c, err := keyCond(desc, key)
	if err != nil {
		return dialect.Statement{}, err
	}
	b := NewBuilder(fl)
	b.WriteString("DELETE FROM ").WriteString(desc.Table)
	return b.Where(c).Statement(), nil
}

// Count returns the statement counting the rows matching the conditions.
func Count(desc *schema.Descriptor, fl dialect.Flavor, conds ...Cond) (dialect.Statement, error) {
	if err := checkConds(desc, conds); err != nil {
		return dialect.Statement{}, err
	}
	b := NewBuilder(fl)
	b.WriteString("SELECT COUNT(*) FROM ").WriteString(desc.Table)
	return b.Where(conds...).Statement(), nil
}

func keyCond(desc *schema.Descriptor, key value.Value) (Cond, error) {
	pk := desc.PrimaryKey()
	if key.IsNull() {
		return Cond{}, bubble.Errorf(bubble.KindTypeMismatch, "%s: missing primary key value", desc.Name)
	}
	if key.Kind() != pk.Kind {
		return Cond{}, bubble.Errorf(bubble.KindTypeMismatch, "%s.%s: key of kind %s, want %s", desc.Name, pk.Field, key.Kind(), pk.Kind)
	}
	return Where(pk.Name, key), nil
}

func checkValues(desc *schema.Descriptor, vals []value.Value) error {
	if len(vals) != len(desc.Columns) {
		return bubble.Errorf(bubble.KindTypeMismatch, "%s: got %d values for %d columns", desc.Name, len(vals), len(desc.Columns))
	}
	for i, c := range desc.Columns {
		v := vals[i]
		if c.Generated {
			continue
		}
		if v.IsNull() && !c.Nullable {
			return bubble.Errorf(bubble.KindTypeMismatch, "%s.%s: null value for non-nullable column", desc.Name, c.Field)
		}
		if v.Kind() != c.Kind {
			return bubble.Errorf(bubble.KindTypeMismatch, "%s.%s: value of kind %s, want %s", desc.Name, c.Field, v.Kind(), c.Kind)
		}
	}
	return nil
}

func checkConds(desc *schema.Descriptor, conds []Cond) error {
	for _, cd := range conds {
		if cd.err != nil {
			return cd.err
		}
		c, ok := desc.Column(cd.Column)
		if !ok {
			return bubble.Errorf(bubble.KindTypeMismatch, "%s: unknown filter column %q", desc.Name, cd.Column)
		}
		if cd.Value.IsNull() {
			return bubble.Errorf(bubble.KindTypeMismatch, "%s.%s: cannot filter on an absent value", desc.Name, c.Field)
		}
		if cd.Value.Kind() != c.Kind {
			return bubble.Errorf(bubble.KindTypeMismatch, "%s.%s: filter of kind %s, want %s", desc.Name, c.Field, cd.Value.Kind(), c.Kind)
		}
	}
	return nil
}
