package orm

import (
	"fmt"
	"reflect"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// Codec converts instances of T to and from database values. Generated code
// implements it statically for every annotated type.
type Codec[T any] interface {
	// Values returns one value per descriptor column, in column order.
	Values(*T) ([]value.Value, error)
	// Decode builds an instance from a result row.
	Decode(dialect.Row) (*T, error)
	// SetKey stores a primary key value in the instance.
	SetKey(*T, value.Value) error
}

// Column decodes the value of col from row into T.
func Column[T any](row dialect.Row, col *schema.Column) (T, error) {
	w, err := lookup(row, col)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := value.Decode[T](w, col.Kind)
	return v, columnError(col, err)
}

// OptionalColumn decodes the value of a nullable col from row. A null value
// decodes to nil.
func OptionalColumn[T any](row dialect.Row, col *schema.Column) (*T, error) {
	w, err := lookup(row, col)
	if err != nil {
		return nil, err
	}
	v, err := value.DecodeOptional[T](w, col.Kind)
	return v, columnError(col, err)
}

func lookup(row dialect.Row, col *schema.Column) (value.Value, error) {
	w, ok := row.Get(col.Name)
	if !ok {
		return w, bubble.Errorf(bubble.KindTypeMismatch, "column %s missing from result", col.Name)
	}
	return w, nil
}

// columnError names the column in a decoding error, keeping its kind.
func columnError(col *schema.Column, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*bubble.Error); ok {
		c := *e
		c.Err = fmt.Errorf("column %s: %w", col.Name, e.Err)
		return &c
	}
	return fmt.Errorf("column %s: %w", col.Name, err)
}

// Reflect returns a codec for T built on reflection, together with the
// descriptor derived from T's struct tags. It serves types that are not run
// through the generator; generated codecs avoid the reflection cost.
func Reflect[T any]() (Codec[T], *schema.Descriptor, error) {
	desc, err := schema.For[T]()
	if err != nil {
		return nil, nil, err
	}
	t := reflect.TypeFor[T]()
	idx := make([][]int, len(desc.Columns))
	for i, c := range desc.Columns {
		f, ok := t.FieldByName(c.Field)
		if !ok {
			return nil, nil, fmt.Errorf("orm: %s has no field %s", t, c.Field)
		}
		idx[i] = f.Index
	}
	return &reflectCodec[T]{desc: desc, fields: idx}, desc, nil
}

type reflectCodec[T any] struct {
	desc   *schema.Descriptor
	fields [][]int
}

func (c *reflectCodec[T]) Values(obj *T) ([]value.Value, error) {
	rv := reflect.ValueOf(obj).Elem()
	vals := make([]value.Value, len(c.desc.Columns))
	for i, col := range c.desc.Columns {
		f := rv.FieldByIndex(c.fields[i])
		if col.Nullable {
			if f.IsNil() {
				vals[i] = value.Null(col.Kind)
				continue
			}
			f = f.Elem()
		}
		if col.Generated && f.IsZero() {
			vals[i] = value.Null(col.Kind)
			continue
		}
		v, err := value.EncodeReflect(f, col.Kind)
		if err != nil {
			return nil, columnError(col, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func (c *reflectCodec[T]) Decode(row dialect.Row) (*T, error) {
	obj := new(T)
	rv := reflect.ValueOf(obj).Elem()
	for i, col := range c.desc.Columns {
		w, err := lookup(row, col)
		if err != nil {
			return nil, err
		}
		if err := value.DecodeReflect(w, col.Kind, rv.FieldByIndex(c.fields[i])); err != nil {
			return nil, columnError(col, err)
		}
	}
	return obj, nil
}

func (c *reflectCodec[T]) SetKey(obj *T, key value.Value) error {
	i := c.desc.KeyIndex()
	f := reflect.ValueOf(obj).Elem().FieldByIndex(c.fields[i])
	return columnError(c.desc.Columns[i], value.DecodeReflect(key, c.desc.Columns[i].Kind, f))
}
