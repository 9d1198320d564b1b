package fixedpoint

import (
	"math"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	for _, p := range []Scale{0, 3, 6, 8, 9} {
		c, err := NewCodec(p)
		require.NoError(t, err)
		for i := 0; i < 1000; i++ {
			// distances of the usual benchmark instances stay below a few thousand
			x := r.Float64() * 5000
			if i%2 == 1 {
				x = 1 / (x + 1)
			}
			v, err := c.Encode(x)
			require.NoError(t, err)
			assert.InDelta(t, x, c.Decode(v), c.Resolution(), "scale %d, x = %g", p, x)
		}
	}
}

func TestCodec_Encode(t *testing.T) {
	c := MustCodec(8)
	tests := []struct {
		name string
		x    float64
		want int64
	}{
		{"zero", 0, 0},
		{"one", 1, 100_000_000},
		{"negative", -2.5, -250_000_000},
		{"rounds up", 0.000000006, 1},
		{"truncates below resolution", 0.000000004, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_EncodeErrors(t *testing.T) {
	c := MustCodec(9)
	_, err := c.Encode(math.NaN())
	assert.ErrorIs(t, err, ErrNotReal)
	_, err = c.Encode(math.Inf(1))
	assert.ErrorIs(t, err, ErrNotReal)
	_, err = c.Encode(1e12)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestScale(t *testing.T) {
	assert.EqualValues(t, 1, Scale(0).Factor())
	assert.EqualValues(t, 100_000_000, Scale(8).Factor())
	assert.Equal(t, int64(1_000_000_000_000_000_000), (2 * MaxScale).Factor())

	_, err := NewCodec(MaxScale + 1)
	assert.ErrorIs(t, err, ErrScale)
}
