package query

import (
	"github.com/0xhappyboy/bubble/value"
)

// Cond is one field-equality condition of a filter. Conditions passed
// together are joined with AND.
type Cond struct {
	Column string
	Value  value.Value
	err    error
}

// Where returns a condition that checks if column equals v.
func Where(column string, v value.Value) Cond {
	return Cond{Column: column, Value: v}
}

// Err returns the error, if any, met while the condition value was encoded.
func (c Cond) Err() error { return c.err }

// Field is a typed column reference used to build filter conditions.
// Generated code declares one per mapped field:
//
//	var UserName = query.Field[string]{Column: "name", Kind: value.KindText}
//	users.FindAll(ctx, UserName.EQ("Ana"))
//
// The type parameter of a nullable field is the pointed-to type; filtering
// on an absent value is not supported.
type Field[T any] struct {
	Column string
	Kind   value.Kind
}

// Name returns the column name.
func (f Field[T]) Name() string { return f.Column }

// EQ returns a condition that checks if the field equals v.
func (f Field[T]) EQ(v T) Cond {
	w, err := value.Encode(v, f.Kind)
	return Cond{Column: f.Column, Value: w, err: err}
}
