// Package value defines the database value model shared by drivers and
// generated code, and the mapping between Go types and value kinds.
package value

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/0xhappyboy/bubble"
)

// Value is a tagged database value: a kind plus either a payload of that kind
// or null. The zero Value is an untyped null.
type Value struct {
	kind Kind
	null bool
	v    any // int64, float64, bool, string, time.Time, []byte or uuid.UUID
}

// Null returns the null value of kind k.
func Null(k Kind) Value { return Value{kind: k, null: true} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, v: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, v: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, v: b} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, v: s} }

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, v: t} }

// Blob returns a binary value. The slice is copied.
func Blob(b []byte) Value { return Value{kind: KindBlob, v: bytes.Clone(b)} }

// UUID returns a UUID value.
func UUID(u uuid.UUID) Value { return Value{kind: KindUUID, v: u} }

// Kind returns the kind of the value. An untyped null reports KindInvalid.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null. The zero Value is null.
func (v Value) IsNull() bool { return v.null || v.v == nil }

// Any returns the payload in a form accepted by database/sql drivers, or nil
// for null.
func (v Value) Any() any {
	if v.IsNull() {
		return nil
	}
	if u, ok := v.v.(uuid.UUID); ok {
		return u.String()
	}
	return v.v
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull() && v.kind == o.kind
	}
	if v.kind != o.kind {
		return false
	}
	switch a := v.v.(type) {
	case []byte:
		return bytes.Equal(a, o.v.([]byte))
	case time.Time:
		return a.Equal(o.v.(time.Time))
	}
	return v.v == o.v
}

// String returns a short representation for logs and error messages.
// Blob payloads are summarised by their length.
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	switch p := v.v.(type) {
	case string:
		return fmt.Sprintf("%q", p)
	case []byte:
		return fmt.Sprintf("blob(%d)", len(p))
	case time.Time:
		return p.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v.v)
}

// FromDriver converts a value produced by a database/sql driver into a Value,
// inferring its kind from the dynamic type.
func FromDriver(src any) (Value, error) {
	switch s := src.(type) {
	case nil:
		return Value{null: true}, nil
	case int64:
		return Int(s), nil
	case float64:
		return Float(s), nil
	case bool:
		return Bool(s), nil
	case string:
		return Text(s), nil
	case []byte:
		return Blob(s), nil
	case time.Time:
		return Time(s), nil
	case uuid.UUID:
		return UUID(s), nil
	case Value:
		return s, nil
	}
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, bubble.Errorf(bubble.KindTypeMismatch, "unsigned value %d overflows int64", u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	}
	return Value{}, bubble.Errorf(bubble.KindTypeMismatch, "unsupported driver value of type %T", src)
}
