package value_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/value"
)

type Status string

type Level uint8

type Stamp time.Time

func TestRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	t.Run("Int", func(t *testing.T) {
		roundTrip(t, int64(math.MinInt64), value.KindInt)
		roundTrip(t, int(42), value.KindInt)
		roundTrip(t, int8(-8), value.KindInt)
		roundTrip(t, uint32(math.MaxUint32), value.KindInt)
		roundTrip(t, Level(3), value.KindInt)
	})
	t.Run("Float", func(t *testing.T) {
		roundTrip(t, 3.25, value.KindFloat)
		roundTrip(t, float32(1.5), value.KindFloat)
	})
	t.Run("Bool", func(t *testing.T) {
		roundTrip(t, true, value.KindBool)
		roundTrip(t, false, value.KindBool)
	})
	t.Run("Text", func(t *testing.T) {
		roundTrip(t, "", value.KindText)
		roundTrip(t, "héllo", value.KindText)
		roundTrip(t, Status("active"), value.KindText)
	})
	t.Run("Time", func(t *testing.T) {
		roundTrip(t, now, value.KindTime)
		roundTrip(t, Stamp(now), value.KindTime)
	})
	t.Run("Blob", func(t *testing.T) {
		roundTrip(t, []byte{0, 1, 2, 255}, value.KindBlob)
		roundTrip(t, []byte{}, value.KindBlob)
	})
	t.Run("UUID", func(t *testing.T) {
		roundTrip(t, id, value.KindUUID)
	})
}

func roundTrip[T any](t *testing.T, v T, k value.Kind) {
	t.Helper()
	w, err := value.Encode(v, k)
	require.NoError(t, err)
	assert.Equal(t, k, w.Kind())
	assert.False(t, w.IsNull())
	got, err := value.Decode[T](w, k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestOptional(t *testing.T) {
	w, err := value.EncodeOptional[string](nil, value.KindText)
	require.NoError(t, err)
	assert.True(t, w.IsNull())
	assert.Equal(t, value.KindText, w.Kind())
	assert.Nil(t, w.Any())

	got, err := value.DecodeOptional[string](w, value.KindText)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := "a@b.c"
	w, err = value.EncodeOptional(&s, value.KindText)
	require.NoError(t, err)
	got, err = value.DecodeOptional[string](w, value.KindText)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, *got)

	// Zero values are present values, not absent ones.
	empty := ""
	w, err = value.EncodeOptional(&empty, value.KindText)
	require.NoError(t, err)
	assert.False(t, w.IsNull())
}

func TestCoercions(t *testing.T) {
	t.Run("IntToFloat", func(t *testing.T) {
		f, err := value.Decode[float64](value.Int(7), value.KindFloat)
		require.NoError(t, err)
		assert.Equal(t, 7.0, f)
	})
	t.Run("IntToBool", func(t *testing.T) {
		b, err := value.Decode[bool](value.Int(1), value.KindBool)
		require.NoError(t, err)
		assert.True(t, b)
		b, err = value.Decode[bool](value.Int(0), value.KindBool)
		require.NoError(t, err)
		assert.False(t, b)
		_, err = value.Decode[bool](value.Int(2), value.KindBool)
		assert.True(t, bubble.IsTypeMismatch(err))
	})
	t.Run("TextToTime", func(t *testing.T) {
		want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		for _, s := range []string{"2024-01-02T03:04:05Z", "2024-01-02 03:04:05", "2024-01-02 03:04:05+00:00"} {
			got, err := value.Decode[time.Time](value.Text(s), value.KindTime)
			require.NoError(t, err, s)
			assert.True(t, want.Equal(got), s)
		}
		_, err := value.Decode[time.Time](value.Text("yesterday"), value.KindTime)
		assert.True(t, bubble.IsTypeMismatch(err))
	})
	t.Run("ToUUID", func(t *testing.T) {
		id := uuid.New()
		got, err := value.Decode[uuid.UUID](value.Text(id.String()), value.KindUUID)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		got, err = value.Decode[uuid.UUID](value.Blob(id[:]), value.KindUUID)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		got, err = value.Decode[uuid.UUID](value.Blob([]byte(id.String())), value.KindUUID)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})
	t.Run("BlobText", func(t *testing.T) {
		s, err := value.Decode[string](value.Blob([]byte("abc")), value.KindText)
		require.NoError(t, err)
		assert.Equal(t, "abc", s)
		b, err := value.Decode[[]byte](value.Text("abc"), value.KindBlob)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), b)
	})
}

func TestMismatch(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"NullIntoValue", func() error { _, err := value.Decode[string](value.Null(value.KindText), value.KindText); return err }},
		{"TextIntoInt", func() error { _, err := value.Decode[int64](value.Text("1"), value.KindInt); return err }},
		{"FloatIntoInt", func() error { _, err := value.Decode[int64](value.Float(1), value.KindInt); return err }},
		{"Overflow", func() error { _, err := value.Decode[int8](value.Int(300), value.KindInt); return err }},
		{"Negative", func() error { _, err := value.Decode[uint](value.Int(-1), value.KindInt); return err }},
		{"WrongTarget", func() error { _, err := value.Decode[string](value.Int(1), value.KindInt); return err }},
		{"EncodeWrongKind", func() error { _, err := value.Encode("x", value.KindInt); return err }},
		{"EncodeNil", func() error { _, err := value.Encode(nil, value.KindText); return err }},
		{"EncodeUintOverflow", func() error { _, err := value.Encode(uint64(math.MaxUint64), value.KindInt); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, bubble.IsTypeMismatch(err), err.Error())
		})
	}
}

func TestDecodeReflect(t *testing.T) {
	var dst struct {
		Name  *string
		Count int16
	}
	rv := reflect.ValueOf(&dst).Elem()

	require.NoError(t, value.DecodeReflect(value.Text("x"), value.KindText, rv.Field(0)))
	require.NotNil(t, dst.Name)
	assert.Equal(t, "x", *dst.Name)

	require.NoError(t, value.DecodeReflect(value.Null(value.KindText), value.KindText, rv.Field(0)))
	assert.Nil(t, dst.Name)

	require.NoError(t, value.DecodeReflect(value.Int(12), value.KindInt, rv.Field(1)))
	assert.Equal(t, int16(12), dst.Count)

	err := value.DecodeReflect(value.Null(value.KindInt), value.KindInt, rv.Field(1))
	assert.True(t, bubble.IsTypeMismatch(err))
}

func TestFromDriver(t *testing.T) {
	tests := []struct {
		src  any
		want value.Value
	}{
		{nil, value.Value{}},
		{int64(5), value.Int(5)},
		{5, value.Int(5)},
		{int32(-5), value.Int(-5)},
		{uint16(5), value.Int(5)},
		{1.5, value.Float(1.5)},
		{true, value.Bool(true)},
		{"s", value.Text("s")},
		{[]byte("b"), value.Blob([]byte("b"))},
	}
	for _, tt := range tests {
		got, err := value.FromDriver(tt.src)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "%v: got %v", tt.src, got)
	}
	_, err := value.FromDriver(struct{}{})
	assert.True(t, bubble.IsTypeMismatch(err))
}

func TestParseText(t *testing.T) {
	w, err := value.ParseText("42", value.KindInt)
	require.NoError(t, err)
	assert.True(t, value.Int(42).Equal(w))

	w, err = value.ParseText("2.5", value.KindFloat)
	require.NoError(t, err)
	assert.True(t, value.Float(2.5).Equal(w))

	_, err = value.ParseText("x", value.KindInt)
	assert.True(t, bubble.IsTypeMismatch(err))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", value.Null(value.KindInt).String())
	assert.Equal(t, "42", value.Int(42).String())
	assert.Equal(t, `"bob"`, value.Text("bob").String())
	assert.Equal(t, "blob(3)", value.Blob([]byte("abc")).String())
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Null(value.KindText).Equal(value.Null(value.KindText)))
	assert.False(t, value.Null(value.KindText).Equal(value.Null(value.KindInt)))
	assert.False(t, value.Int(1).Equal(value.Float(1)))
	assert.False(t, value.Int(1).Equal(value.Null(value.KindInt)))
	now := time.Now()
	assert.True(t, value.Time(now).Equal(value.Time(now.In(time.UTC))))
}
