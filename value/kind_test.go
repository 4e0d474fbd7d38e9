package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xhappyboy/bubble/value"
)

func TestKind(t *testing.T) {
	for _, k := range []value.Kind{value.KindInt, value.KindFloat, value.KindBool, value.KindText, value.KindTime, value.KindBlob, value.KindUUID} {
		t.Run(k.String(), func(t *testing.T) {
			assert.True(t, k.Valid())
			got, err := value.ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, got)
			assert.True(t, value.Compatible(k, k))
		})
	}
	assert.False(t, value.KindInvalid.Valid())
	_, err := value.ParseKind("invalid")
	assert.Error(t, err)
	_, err = value.ParseKind("decimal")
	assert.Error(t, err)
}

func TestKindText(t *testing.T) {
	b, err := value.KindUUID.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "uuid", string(b))

	var k value.Kind
	require.NoError(t, k.UnmarshalText([]byte("time")))
	assert.Equal(t, value.KindTime, k)
	assert.Error(t, k.UnmarshalText([]byte("decimal")))

	_, err = value.KindInvalid.MarshalText()
	assert.Error(t, err)
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		wire, declared value.Kind
		want           bool
	}{
		{value.KindInt, value.KindFloat, true},
		{value.KindInt, value.KindBool, true},
		{value.KindText, value.KindTime, true},
		{value.KindText, value.KindUUID, true},
		{value.KindBlob, value.KindUUID, true},
		{value.KindBlob, value.KindText, true},
		{value.KindText, value.KindBlob, true},
		{value.KindFloat, value.KindInt, false},
		{value.KindText, value.KindInt, false},
		{value.KindTime, value.KindText, false},
		{value.KindBool, value.KindInt, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, value.Compatible(tt.wire, tt.declared), "%s -> %s", tt.wire, tt.declared)
	}
}

func TestRegister(t *testing.T) {
	k, ok := value.Lookup("github.com/google/uuid.UUID")
	require.True(t, ok)
	assert.Equal(t, value.KindUUID, k)

	_, ok = value.Lookup("example.com/test.Cents")
	require.False(t, ok)
	require.NoError(t, value.Register("example.com/test.Cents", value.KindInt))
	require.NoError(t, value.Register("example.com/test.Cents", value.KindInt))
	k, ok = value.Lookup("example.com/test.Cents")
	require.True(t, ok)
	assert.Equal(t, value.KindInt, k)
	assert.Contains(t, value.Registered(), "example.com/test.Cents")

	assert.Error(t, value.Register("example.com/test.Cents", value.KindText))
	assert.Error(t, value.Register("string", value.KindBlob))
	assert.Error(t, value.Register("*example.com/test.Ptr", value.KindInt))
	assert.Error(t, value.Register("example.com/test.Bad", value.KindInvalid))
}
