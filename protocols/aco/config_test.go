package aco

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 80, c.Iterations)
	assert.Equal(t, 50, c.Colony)
	assert.Equal(t, 0.5, c.Rho)
	assert.Equal(t, fixedpoint.Scale(8), c.Scale)

	d, err := c.divisor(fixedpoint.MustCodec(c.Scale))
	require.NoError(t, err)
	assert.Equal(t, int64(200_000_000), d)
}

func TestConfig_Validate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
	}{
		{"no iterations", func(c *Config) { c.Iterations = 0 }},
		{"no ants", func(c *Config) { c.Colony = 0 }},
		{"alpha", func(c *Config) { c.Alpha = 2 }},
		{"beta", func(c *Config) { c.Beta = 0 }},
		{"negative del_tau", func(c *Config) { c.DeltaTau = -1 }},
		{"NaN del_tau", func(c *Config) { c.DeltaTau = math.NaN() }},
		{"zero rho", func(c *Config) { c.Rho = 0 }},
		{"negative rho", func(c *Config) { c.Rho = -0.5 }},
		{"NaN rho", func(c *Config) { c.Rho = math.NaN() }},
		{"infinite rho", func(c *Config) { c.Rho = math.Inf(1) }},
		{"1/rho rounds to zero", func(c *Config) { c.Scale = 2; c.Rho = 1000 }},
		{"scale", func(c *Config) { c.Scale = fixedpoint.MaxScale + 1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfiguration)
		})
	}

	c := DefaultConfig()
	c.Rho, c.DeltaTau = 1, 0
	assert.NoError(t, c.Validate())
}

func TestConfig_Marshal(t *testing.T) {
	c := DefaultConfig()
	c.Seed = -42
	c.DeltaTau = 0.25
	data, err := c.MarshalBinary()
	require.NoError(t, err)

	var got Config
	require.NoError(t, got.UnmarshalBinary(data))
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Error(t, got.UnmarshalBinary([]byte{0xff}))
}
