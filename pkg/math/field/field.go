package field

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Field is the prime field ℤₚ in which additive shares live.
//
// Signed integers are embedded as x ↦ x (mod p) and recovered with a centered lift,
// so that every |x| < p/2 round-trips.
type Field struct {
	p *saferith.Modulus
	// pBig = p
	pBig *big.Int
	// half = (p-1)/2
	half *big.Int
}

// New returns the field ℤₚ. p is assumed to be an odd prime.
func New(p *big.Int) *Field {
	pBig := new(big.Int).Set(p)
	half := new(big.Int).Rsh(pBig, 1)
	return &Field{
		p:    saferith.ModulusFromBytes(pBig.Bytes()),
		pBig: pBig,
		half: half,
	}
}

// Secp256k1 returns ℤₙ where n is the order of the secp256k1 group.
func Secp256k1() *Field {
	return New(secp256k1.S256().Params().N)
}

// Modulus returns p.
func (f *Field) Modulus() *saferith.Modulus { return f.p }

// BitLen returns the size of p in bits.
func (f *Field) BitLen() int { return f.p.BitLen() }

// Zero returns 0 ∈ ℤₚ.
func (f *Field) Zero() *saferith.Nat {
	return new(saferith.Nat).SetUint64(0).Resize(f.p.BitLen())
}

// FromInt64 embeds x into ℤₚ.
func (f *Field) FromInt64(x int64) *saferith.Nat {
	if x >= 0 {
		return new(saferith.Nat).SetUint64(uint64(x)).Resize(f.p.BitLen())
	}
	// -(x+1) avoids overflowing on math.MinInt64
	abs := new(saferith.Nat).SetUint64(uint64(-(x + 1)) + 1)
	return new(saferith.Nat).ModNeg(abs, f.p)
}

// FromBig embeds an arbitrary signed integer into ℤₚ.
func (f *Field) FromBig(x *big.Int) *saferith.Nat {
	reduced := new(big.Int).Mod(x, f.pBig)
	return new(saferith.Nat).SetBig(reduced, f.p.BitLen())
}

// Lift returns the representative of x in (-p/2, p/2].
func (f *Field) Lift(x *saferith.Nat) *big.Int {
	v := new(saferith.Nat).Mod(x, f.p).Big()
	if v.Cmp(f.half) > 0 {
		v.Sub(v, f.pBig)
	}
	return v
}

// Add returns x + y (mod p).
func (f *Field) Add(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModAdd(x, y, f.p)
}

// Sub returns x - y (mod p).
func (f *Field) Sub(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModSub(x, y, f.p)
}

// Mul returns x ⋅ y (mod p).
func (f *Field) Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(x, y, f.p)
}

// Neg returns -x (mod p).
func (f *Field) Neg(x *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModNeg(x, f.p)
}

// Equal reports whether x = y (mod p).
func (f *Field) Equal(x, y *saferith.Nat) bool {
	a := new(saferith.Nat).Mod(x, f.p)
	b := new(saferith.Nat).Mod(y, f.p)
	return a.Eq(b) == 1
}
