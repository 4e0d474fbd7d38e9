package value

import (
	"bytes"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xhappyboy/bubble"
)

var (
	timeType = reflect.TypeFor[time.Time]()
	uuidType = reflect.TypeFor[uuid.UUID]()
)

// Layouts accepted when text is decoded into a timestamp. SQLite and MySQL
// render timestamps without the RFC 3339 "T" separator.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func mismatch(format string, args ...any) error {
	return bubble.Errorf(bubble.KindTypeMismatch, format, args...)
}

// Encode converts v into a value of kind k. The dynamic type of v must be a
// predeclared, named or registered type whose underlying shape fits k.
func Encode(v any, k Kind) (Value, error) {
	if v == nil {
		return Value{}, mismatch("cannot encode nil as %s", k)
	}
	switch k {
	case KindInt:
		if i, ok := v.(int64); ok {
			return Int(i), nil
		}
	case KindText:
		if s, ok := v.(string); ok {
			return Text(s), nil
		}
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return Time(t), nil
		}
	case KindUUID:
		if u, ok := v.(uuid.UUID); ok {
			return UUID(u), nil
		}
	}
	return EncodeReflect(reflect.ValueOf(v), k)
}

// EncodeReflect is the reflective form of Encode.
func EncodeReflect(rv reflect.Value, k Kind) (Value, error) {
	if !rv.IsValid() {
		return Value{}, mismatch("cannot encode nil as %s", k)
	}
	switch k {
	case KindInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Int(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt64 {
				return Value{}, mismatch("value %d overflows int", u)
			}
			return Int(int64(u)), nil
		}
	case KindFloat:
		if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
			return Float(rv.Float()), nil
		}
	case KindBool:
		if rv.Kind() == reflect.Bool {
			return Bool(rv.Bool()), nil
		}
	case KindText:
		if rv.Kind() == reflect.String {
			return Text(rv.String()), nil
		}
	case KindBlob:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Blob(rv.Bytes()), nil
		}
	case KindTime:
		if rv.Type().ConvertibleTo(timeType) && rv.Kind() == reflect.Struct {
			return Time(rv.Convert(timeType).Interface().(time.Time)), nil
		}
	case KindUUID:
		if rv.Type().ConvertibleTo(uuidType) {
			return UUID(rv.Convert(uuidType).Interface().(uuid.UUID)), nil
		}
	default:
		return Value{}, mismatch("invalid kind %s", k)
	}
	return Value{}, mismatch("cannot encode %s as %s", rv.Type(), k)
}

// EncodeOptional encodes an optional field: nil becomes the null value of
// kind k, anything else is encoded as Encode does.
func EncodeOptional[T any](v *T, k Kind) (Value, error) {
	if v == nil {
		return Null(k), nil
	}
	return Encode(*v, k)
}

// Decode converts the stored value w into T, validating that the wire kind
// is compatible with the declared kind k. A null value is a mismatch: use
// DecodeOptional for nullable fields.
func Decode[T any](w Value, k Kind) (T, error) {
	var out T
	if w.IsNull() {
		return out, mismatch("null value for non-optional %T", out)
	}
	c, err := coerce(w, k)
	if err != nil {
		return out, err
	}
	switch p := any(&out).(type) {
	case *int64:
		if i, ok := c.(int64); ok {
			*p = i
			return out, nil
		}
	case *string:
		if s, ok := c.(string); ok {
			*p = s
			return out, nil
		}
	case *float64:
		if f, ok := c.(float64); ok {
			*p = f
			return out, nil
		}
	case *bool:
		if b, ok := c.(bool); ok {
			*p = b
			return out, nil
		}
	case *time.Time:
		if t, ok := c.(time.Time); ok {
			*p = t
			return out, nil
		}
	case *uuid.UUID:
		if u, ok := c.(uuid.UUID); ok {
			*p = u
			return out, nil
		}
	}
	if err := assign(reflect.ValueOf(&out).Elem(), c, k); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeOptional decodes a nullable field: null becomes nil, anything else is
// decoded as Decode does.
func DecodeOptional[T any](w Value, k Kind) (*T, error) {
	if w.IsNull() {
		return nil, nil
	}
	v, err := Decode[T](w, k)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DecodeReflect is the reflective form of Decode and DecodeOptional: dst must
// be settable. When dst is a pointer, null sets it to nil and anything else
// allocates a new element.
func DecodeReflect(w Value, k Kind, dst reflect.Value) error {
	if dst.Kind() == reflect.Pointer {
		if w.IsNull() {
			dst.SetZero()
			return nil
		}
		p := reflect.New(dst.Type().Elem())
		if err := DecodeReflect(w, k, p.Elem()); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	if w.IsNull() {
		return mismatch("null value for non-optional %s", dst.Type())
	}
	c, err := coerce(w, k)
	if err != nil {
		return err
	}
	return assign(dst, c, k)
}

// coerce returns the canonical Go payload of kind k for w, applying the
// lossless coercions between kinds.
func coerce(w Value, k Kind) (any, error) {
	if !Compatible(w.kind, k) {
		return nil, mismatch("stored %s value is not compatible with %s", w.kind, k)
	}
	if w.kind == k {
		return w.v, nil
	}
	switch k {
	case KindFloat:
		return float64(w.v.(int64)), nil
	case KindBool:
		switch i := w.v.(int64); i {
		case 0, 1:
			return i == 1, nil
		default:
			return nil, mismatch("integer %d is not a boolean", i)
		}
	case KindText:
		return string(w.v.([]byte)), nil
	case KindBlob:
		return []byte(w.v.(string)), nil
	case KindTime:
		return parseTime(w.v.(string))
	case KindUUID:
		switch p := w.v.(type) {
		case string:
			u, err := uuid.Parse(p)
			if err != nil {
				return nil, mismatch("text %q is not a uuid: %v", p, err)
			}
			return u, nil
		case []byte:
			if len(p) == 16 {
				return uuid.UUID(p), nil
			}
			u, err := uuid.ParseBytes(p)
			if err != nil {
				return nil, mismatch("blob of %d bytes is not a uuid", len(p))
			}
			return u, nil
		}
	}
	return nil, mismatch("stored %s value is not compatible with %s", w.kind, k)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, mismatch("text %q is not a timestamp", s)
}

// ParseText converts the textual rendering of a value, as produced by text
// protocols, into a value of kind k.
func ParseText(s string, k Kind) (Value, error) {
	switch k {
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, mismatch("text %q is not an integer", s)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, mismatch("text %q is not a number", s)
		}
		return Float(f), nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, mismatch("text %q is not a boolean", s)
		}
		return Bool(b), nil
	case KindText:
		return Text(s), nil
	case KindBlob:
		return Blob([]byte(s)), nil
	case KindTime:
		t, err := parseTime(s)
		if err != nil {
			return Value{}, err
		}
		return Time(t), nil
	case KindUUID:
		u, err := uuid.Parse(s)
		if err != nil {
			return Value{}, mismatch("text %q is not a uuid", s)
		}
		return UUID(u), nil
	}
	return Value{}, mismatch("invalid kind %s", k)
}

// assign stores the canonical payload c of kind k into dst.
func assign(dst reflect.Value, c any, k Kind) error {
	switch k {
	case KindInt:
		i := c.(int64)
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if dst.OverflowInt(i) {
				return mismatch("value %d overflows %s", i, dst.Type())
			}
			dst.SetInt(i)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if i < 0 || dst.OverflowUint(uint64(i)) {
				return mismatch("value %d overflows %s", i, dst.Type())
			}
			dst.SetUint(uint64(i))
			return nil
		}
	case KindFloat:
		if dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64 {
			f := c.(float64)
			if dst.OverflowFloat(f) {
				return mismatch("value %g overflows %s", f, dst.Type())
			}
			dst.SetFloat(f)
			return nil
		}
	case KindBool:
		if dst.Kind() == reflect.Bool {
			dst.SetBool(c.(bool))
			return nil
		}
	case KindText:
		if dst.Kind() == reflect.String {
			dst.SetString(c.(string))
			return nil
		}
	case KindBlob:
		if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes(bytes.Clone(c.([]byte)))
			return nil
		}
	case KindTime, KindUUID:
		src := reflect.ValueOf(c)
		if src.Type().ConvertibleTo(dst.Type()) {
			dst.Set(src.Convert(dst.Type()))
			return nil
		}
	}
	return mismatch("cannot decode %s into %s", k, dst.Type())
}
