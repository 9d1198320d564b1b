package hash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			if err := h.WriteAny(v); err != nil {
				return err
			}
		}
		return nil
	}
	require.NoError(t, testFunc([]byte{}))
	require.NoError(t, testFunc("aco"))
	require.NoError(t, testFunc(3, int64(-4), 0.5))
	require.NoError(t, testFunc(big.NewInt(-35)))
	require.NoError(t, testFunc(&BytesWithDomain{"Run ID", []byte{1, 2}}))
	require.Error(t, testFunc((*big.Int)(nil)))
	require.Error(t, testFunc(&BytesWithDomain{"nil", nil}))
	assert.Panics(t, func() { _ = testFunc(struct{}{}) })
}

func TestHash_DomainSeparation(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny(int64(1)))
	h2 := New()
	require.NoError(t, h2.WriteAny(1))
	assert.NotEqual(t, h1.Sum(), h2.Sum(), "int and int64 must not collide")

	h3 := New()
	require.NoError(t, h3.WriteAny("ab", "c"))
	h4 := New()
	require.NoError(t, h4.WriteAny("a", "bc"))
	assert.NotEqual(t, h3.Sum(), h4.Sum())
}

func TestHash_CloneAndFork(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny("transcript"))

	assert.Equal(t, h.Sum(), h.Clone().Sum())
	assert.Len(t, h.Sum(), DigestLengthBytes)

	a, b := h.Fork("a"), h.Fork("b")
	assert.NotEqual(t, a.Sum(), b.Sum())
	assert.Equal(t, a.Sum(), h.Fork("a").Sum())
}
