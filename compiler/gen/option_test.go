package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xhappyboy/bubble/value"
)

func TestOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithTarget("out"),
		WithHeader("Code generated by test. DO NOT EDIT."),
		WithTypes("User"),
		WithTypes("Session"),
		WithWorkers(2),
	)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Target:  "out",
		Header:  "Code generated by test. DO NOT EDIT.",
		Types:   []string{"User", "Session"},
		Workers: 2,
	}, cfg)
	assert.Equal(t, 2, cfg.workers())
	assert.True(t, cfg.selected("Session"))
	assert.False(t, cfg.selected("Event"))

	cfg = &Config{}
	assert.Equal(t, DefaultHeader, cfg.header())
	assert.Positive(t, cfg.workers())
	assert.True(t, cfg.selected("Event"))
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{"Target", WithTarget(""), `bubble/gen: config error for "Target": target directory cannot be empty`},
		{"Types", WithTypes("user-account"), `bubble/gen: config error for "Types" (value: user-account): not a Go type name`},
		{"Workers", WithWorkers(0), `bubble/gen: config error for "Workers" (value: 0): must be at least 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			require.EqualError(t, err, tt.want)
			assert.True(t, IsConfigError(err))
			assert.ErrorIs(t, err, ErrMissingConfig)
		})
	}
}

func TestWithKind(t *testing.T) {
	_, err := NewConfig(WithKind("example.com/options.Level", value.KindInt))
	require.NoError(t, err)
	k, ok := value.Lookup("example.com/options.Level")
	require.True(t, ok)
	assert.Equal(t, value.KindInt, k)

	_, err = NewConfig(WithKind("example.com/options.Level", value.KindText))
	assert.True(t, IsConfigError(err))
	assert.ErrorContains(t, err, "already mapped to int")
}

func TestApplyAll(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyAll(WithTarget(""), WithWorkers(-1), WithHeader("h"))
	require.Error(t, err)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Target", cerr.Option)
	assert.ErrorContains(t, err, "Workers")
	assert.Equal(t, "h", cfg.Header, "valid options are still applied")

	assert.Panics(t, func() { MustNewConfig(WithWorkers(0)) })
	assert.NotPanics(t, func() { MustNewConfig(WithWorkers(1)) })
}
