package aco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"github.com/taurusgroup/secure-aco/pkg/secret/plain"
)

func square() []Node {
	return []Node{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func TestNewDistanceMatrix(t *testing.T) {
	d, err := NewDistanceMatrix(square())
	require.NoError(t, err)
	require.Equal(t, 4, d.Dim())
	for i := range d {
		assert.Zero(t, d[i][i])
		for j := range d {
			assert.Equal(t, d[i][j], d[j][i])
		}
	}
	assert.Equal(t, 1.0, d[0][1])
	assert.InDelta(t, math.Sqrt2, d[0][2], 1e-15)
	assert.Equal(t, 4.0, d.Length(Tour{0, 1, 2, 3, 0}))

	_, err = NewDistanceMatrix([]Node{{0, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewDistanceMatrix([]Node{{0, 0}, {math.NaN(), 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDistanceMatrix_Inverse(t *testing.T) {
	d, err := NewDistanceMatrix([]Node{{0, 0}, {2, 0}, {2, 0}})
	require.NoError(t, err)
	inv := d.Inverse()
	assert.Zero(t, inv[0][0])
	assert.Equal(t, 0.5, inv[0][1])
	// coincident nodes
	assert.Zero(t, inv[1][2])
}

func TestEncryptMatrices(t *testing.T) {
	p, err := plain.New(6)
	require.NoError(t, err)
	codec := fixedpoint.MustCodec(6)
	d, err := NewDistanceMatrix(square())
	require.NoError(t, err)

	m, err := EncryptMatrices(p, codec, d)
	require.NoError(t, err)
	require.Equal(t, 4, m.Dim())
	raw, err := p.Reveal(m.Distance[0][2])
	require.NoError(t, err)
	assert.Equal(t, int64(1_414_214), raw)
	raw, err = p.Reveal(m.Inverse[0][2])
	require.NoError(t, err)
	assert.Equal(t, int64(707_107), raw)
	raw, err = p.Reveal(m.Inverse[3][3])
	require.NoError(t, err)
	assert.Zero(t, raw)

	_, err = EncryptMatrices(p, fixedpoint.MustCodec(8), d)
	assert.ErrorIs(t, err, secret.ErrScaleMismatch)
}
