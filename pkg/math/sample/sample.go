package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// Bits returns a uniform integer in [0, 2ᵇⁱᵗˢ).
func Bits(rand io.Reader, bits int) *big.Int {
	buf := make([]byte, (bits+7)/8)
	mustReadBits(rand, buf)
	// clear the excess bits of the most significant byte
	if excess := 8*len(buf) - bits; excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}
	return new(big.Int).SetBytes(buf)
}

// Positive returns a uniform integer in [1, 2ᵇⁱᵗˢ).
func Positive(rand io.Reader, bits int) *big.Int {
	for i := 0; i < maxIterations; i++ {
		if x := Bits(rand, bits); x.Sign() > 0 {
			return x
		}
	}
	panic(ErrMaxIterations)
}
