package additive

import (
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/taurusgroup/secure-aco/pkg/math/field"
	"github.com/taurusgroup/secure-aco/pkg/math/sample"
)

// dealer hands out correlated randomness to the share holders.
//
// It never sees a secret value or an opened value other than the public divisor of a truncation.
type dealer struct {
	field   *field.Field
	holders int
	rand    io.Reader
}

// triple is a Beaver triple ⟨a⟩, ⟨b⟩, ⟨c⟩ with c = a⋅b.
type triple struct {
	a, b, c []*saferith.Nat
}

// share splits x into additive shares.
func (d *dealer) share(x *saferith.Nat) []*saferith.Nat {
	shares := make([]*saferith.Nat, d.holders)
	last := new(saferith.Nat).SetNat(x)
	for i := 1; i < d.holders; i++ {
		shares[i] = sample.ModN(d.rand, d.field.Modulus())
		last = d.field.Sub(last, shares[i])
	}
	shares[0] = last
	return shares
}

func (d *dealer) triple() triple {
	a := sample.ModN(d.rand, d.field.Modulus())
	b := sample.ModN(d.rand, d.field.Modulus())
	return triple{
		a: d.share(a),
		b: d.share(b),
		c: d.share(d.field.Mul(a, b)),
	}
}

// truncation returns ⟨r⟩ and ⟨⌊r/divisor⌋⟩ for a uniform r that statistically hides any
// x + bias with |x| < 2^TruncationBits.
func (d *dealer) truncation(divisor *big.Int) (r, q []*saferith.Nat) {
	bits := params.TruncationBits + params.StatParam + 2 + divisor.BitLen()
	rBig := sample.Bits(d.rand, bits)
	qBig := new(big.Int).Quo(rBig, divisor)
	return d.share(d.field.FromBig(rBig)), d.share(d.field.FromBig(qBig))
}

// mask returns ⟨m⟩ for a uniform m ∈ [1, 2^MaskBits).
func (d *dealer) mask() []*saferith.Nat {
	m := sample.Positive(d.rand, params.MaskBits)
	return d.share(d.field.FromBig(m))
}
