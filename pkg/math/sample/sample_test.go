package sample

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/pkg/hash"
	"golang.org/x/crypto/chacha20"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		if lt != 1 {
			t.Errorf("ModN generated a number >= %v: %v", x, n)
		}
	}
}

func TestBits(t *testing.T) {
	for _, bits := range []int{1, 7, 8, 13, 96} {
		for i := 0; i < 50; i++ {
			x := Bits(rand.Reader, bits)
			assert.LessOrEqual(t, x.BitLen(), bits)
			assert.GreaterOrEqual(t, x.Sign(), 0)
		}
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, Positive(rand.Reader, 2).Sign())
	}
}

func TestStream_Deterministic(t *testing.T) {
	read := func(seed int64, label string) []byte {
		s, err := NewStream(seed, label)
		require.NoError(t, err)
		out := make([]byte, 100)
		_, err = io.ReadFull(s, out)
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, read(7, "shares"), read(7, "shares"))
	assert.NotEqual(t, read(7, "shares"), read(8, "shares"))
	assert.NotEqual(t, read(7, "shares"), read(7, "dealer"))
}

func TestStream_ForksSeedTranscript(t *testing.T) {
	h := hash.New()
	require.NoError(t, h.WriteAny(&hash.Int64WithDomain{TheDomain: "Seed", Value: 5}))
	key := make([]byte, chacha20.KeySize)
	_, err := io.ReadFull(h.Fork("dealer").Digest(), key)
	require.NoError(t, err)
	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	require.NoError(t, err)
	want := make([]byte, 64)
	c.XORKeyStream(want, want)

	s, err := NewStream(5, "dealer")
	require.NoError(t, err)
	got := make([]byte, 64)
	_, err = io.ReadFull(s, got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStream_NotRepeating(t *testing.T) {
	s, err := NewStream(1, "")
	require.NoError(t, err)
	a, b := make([]byte, 32), make([]byte, 32)
	_, _ = s.Read(a)
	_, _ = s.Read(b)
	assert.NotEqual(t, a, b)
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultNat *saferith.Nat

func BenchmarkModN(b *testing.B) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < b.N; i++ {
		resultNat = ModN(rand.Reader, n)
	}
}
