// Package additive simulates K share holders running n-out-of-n additive secret sharing over the
// secp256k1 scalar field, with a dealer supplying correlated randomness.
//
// Every secret x is held as shares x₁ … x_K with x = Σ xᵢ (mod n). Additions are local.
// Multiplications consume a Beaver triple and open two uniformly masked differences.
// Truncation (rescaling and division) opens x + r for a statistically hiding r supplied together
// with ⌊r/D⌋ by the dealer, and is exact up to one unit in the last place.
//
// Division and comparison open b⋅m for a uniform positive mask m < 2^32. This discloses the sign
// of b and its magnitude up to the unknown factor m, and is the leakage profile of Compare.
// All share holders live in the current process; the package models the arithmetic and the
// disclosure points of the protocol, not its network layer.
package additive

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/taurusgroup/secure-aco/pkg/hash"
	"github.com/taurusgroup/secure-aco/pkg/math/field"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/math/sample"
	"github.com/taurusgroup/secure-aco/pkg/party"
	"github.com/taurusgroup/secure-aco/pkg/pool"
	"github.com/taurusgroup/secure-aco/pkg/secret"
)

var (
	ErrHolders = errors.New("additive: at least two valid share holders are required")
	ErrRange   = errors.New("additive: opened value exceeds the supported range")
)

type value struct {
	owner  *Provider
	scale  fixedpoint.Scale
	shares []*saferith.Nat
}

// Scale implements secret.Value.
func (v *value) Scale() fixedpoint.Scale { return v.scale }

// Provider implements secret.ComparingProvider.
type Provider struct {
	field   *field.Field
	holders party.IDSlice
	scale   fixedpoint.Scale
	dealer  *dealer

	// bound = 2^TruncationBits
	bound *big.Int

	// mtx guards field, dealer and ledger. saferith moduli cache state on use,
	// so field arithmetic is not safe to run concurrently.
	mtx sync.Mutex
	// ledger accumulates every revealed value
	ledger *hash.Hash

	reveals     atomic.Int64
	openings    atomic.Int64
	comparisons atomic.Int64
}

// New returns a provider at scale p shared among holders.
//
// rand is the source of all share and dealer randomness; a nil rand uses crypto/rand.
// Passing a sample.Stream makes a sequential run reproducible.
func New(holders party.IDSlice, p fixedpoint.Scale, rand io.Reader) (*Provider, error) {
	if len(holders) < 2 || !holders.Valid() {
		return nil, ErrHolders
	}
	if err := p.Valid(); err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}
	if rand == nil {
		rand = defaultRand()
	}
	locked := pool.NewLockedReader(rand)
	f := field.Secp256k1()

	ledger := hash.New()
	if err := ledger.WriteAny(holders, &hash.Int64WithDomain{TheDomain: "Scale", Value: int64(p)}); err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}

	return &Provider{
		field:   f,
		holders: holders.Copy(),
		scale:   p,
		dealer:  &dealer{field: f, holders: len(holders), rand: locked},
		bound:   new(big.Int).Lsh(big.NewInt(1), params.TruncationBits),
		ledger:  ledger,
	}, nil
}

// NewSeeded returns a provider whose randomness is the ChaCha20 stream derived from seed.
func NewSeeded(holders party.IDSlice, p fixedpoint.Scale, seed int64) (*Provider, error) {
	stream, err := sample.NewStream(seed, "additive")
	if err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}
	return New(holders, p, stream)
}

func defaultRand() io.Reader { return rand.Reader }

// Holders returns the share holders.
func (p *Provider) Holders() party.IDSlice { return p.holders.Copy() }

// Scale implements secret.Provider.
func (p *Provider) Scale() fixedpoint.Scale { return p.scale }

// Share implements secret.Provider.
func (p *Provider) Share(raw int64) (secret.Value, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.newValue(p.scale, p.dealer.share(p.field.FromInt64(raw))), nil
}

// Add implements secret.Provider.
func (p *Provider) Add(a, b secret.Value) (secret.Value, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, y, err := p.operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("additive: add: %w", err)
	}
	return p.add(x, y), nil
}

// Multiply implements secret.Provider.
func (p *Provider) Multiply(a, b secret.Value) (secret.Value, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, y, err := p.operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("additive: multiply: %w", err)
	}
	return p.newValue(x.scale+y.scale, p.mul(x.shares, y.shares)), nil
}

// Rescale implements secret.Provider.
func (p *Provider) Rescale(a secret.Value) (secret.Value, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, err := p.cast(a)
	if err != nil {
		return nil, fmt.Errorf("additive: rescale: %w", err)
	}
	if x.scale < p.scale {
		return nil, fmt.Errorf("additive: rescale: %w: %d below %d", secret.ErrScaleMismatch, x.scale, p.scale)
	}
	if x.scale == p.scale {
		return p.newValue(p.scale, x.shares), nil
	}
	shares, err := p.truncate(x.shares, pow10(x.scale-p.scale))
	if err != nil {
		return nil, fmt.Errorf("additive: rescale: %w", err)
	}
	return p.newValue(p.scale, shares), nil
}

// DivideApprox implements secret.Provider.
//
// With a fresh mask m, the holders open u = b⋅m, compute a⋅m⋅10ˢ locally and by a Beaver
// multiplication, and truncate it by the public |u|.
func (p *Provider) DivideApprox(a, b secret.Value) (secret.Value, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, y, err := p.operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("additive: divide: %w", err)
	}
	m := p.dealer.mask()
	u, err := p.open(p.mul(y.shares, m))
	if err != nil {
		return nil, fmt.Errorf("additive: divide: %w", err)
	}
	if u.Sign() == 0 {
		return p.newValue(x.scale, p.constant(new(big.Int))), nil
	}
	numerator := p.mul(x.shares, m)
	numerator = p.scalarMul(numerator, p.field.FromBig(pow10(x.scale)))
	if u.Sign() < 0 {
		numerator = p.neg(numerator)
		u.Neg(u)
	}
	q, err := p.truncate(numerator, u)
	if err != nil {
		return nil, fmt.Errorf("additive: divide: %w", err)
	}
	return p.newValue(x.scale, q), nil
}

// Compare implements secret.Comparator by opening (a - b)⋅m for a fresh positive mask m.
func (p *Provider) Compare(a, b secret.Value) (int, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, y, err := p.operands(a, b)
	if err != nil {
		return 0, fmt.Errorf("additive: compare: %w", err)
	}
	diff := p.add(x, &value{shares: p.neg(y.shares)})
	u, err := p.open(p.mul(diff.shares, p.dealer.mask()))
	if err != nil {
		return 0, fmt.Errorf("additive: compare: %w", err)
	}
	p.comparisons.Add(1)
	return u.Sign(), nil
}

// Reveal implements secret.Provider. Each revealed value is appended to the ledger.
func (p *Provider) Reveal(a secret.Value) (int64, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	x, err := p.cast(a)
	if err != nil {
		return 0, fmt.Errorf("additive: reveal: %w", err)
	}
	v := p.field.Lift(p.sum(x.shares))
	if !v.IsInt64() {
		return 0, fmt.Errorf("additive: reveal: %w", fixedpoint.ErrOverflow)
	}
	if err = p.ledger.WriteAny(&hash.Int64WithDomain{TheDomain: "Reveal", Value: v.Int64()}); err != nil {
		return 0, fmt.Errorf("additive: reveal: %w", err)
	}
	p.reveals.Add(1)
	return v.Int64(), nil
}

// Ledger returns a digest of every value revealed so far, in order.
func (p *Provider) Ledger() []byte {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.ledger.Clone().Sum()
}

// Reveals returns the number of successful Reveal calls.
func (p *Provider) Reveals() int64 { return p.reveals.Load() }

// Openings returns the number of masked values opened by multiplications, truncations,
// divisions and comparisons.
func (p *Provider) Openings() int64 { return p.openings.Load() }

// Comparisons returns the number of successful Compare calls.
func (p *Provider) Comparisons() int64 { return p.comparisons.Load() }

func (p *Provider) newValue(scale fixedpoint.Scale, shares []*saferith.Nat) *value {
	return &value{owner: p, scale: scale, shares: shares}
}

func (p *Provider) cast(a secret.Value) (*value, error) {
	x, ok := a.(*value)
	if !ok || x == nil || x.owner != p {
		return nil, secret.ErrForeignValue
	}
	return x, nil
}

func (p *Provider) operands(a, b secret.Value) (*value, *value, error) {
	x, err := p.cast(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := p.cast(b)
	if err != nil {
		return nil, nil, err
	}
	if err = secret.CheckScales(x, y); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (p *Provider) add(x, y *value) *value {
	shares := make([]*saferith.Nat, len(x.shares))
	for i := range shares {
		shares[i] = p.field.Add(x.shares[i], y.shares[i])
	}
	return p.newValue(x.scale, shares)
}

func (p *Provider) neg(x []*saferith.Nat) []*saferith.Nat {
	shares := make([]*saferith.Nat, len(x))
	for i := range shares {
		shares[i] = p.field.Neg(x[i])
	}
	return shares
}

// scalarMul multiplies every share by a public constant.
func (p *Provider) scalarMul(x []*saferith.Nat, c *saferith.Nat) []*saferith.Nat {
	shares := make([]*saferith.Nat, len(x))
	for i := range shares {
		shares[i] = p.field.Mul(x[i], c)
	}
	return shares
}

// constant returns a sharing of a public value, held entirely by the first holder.
func (p *Provider) constant(c *big.Int) []*saferith.Nat {
	shares := make([]*saferith.Nat, len(p.holders))
	shares[0] = p.field.FromBig(c)
	for i := 1; i < len(shares); i++ {
		shares[i] = p.field.Zero()
	}
	return shares
}

func (p *Provider) sum(shares []*saferith.Nat) *saferith.Nat {
	acc := p.field.Zero()
	for _, s := range shares {
		acc = p.field.Add(acc, s)
	}
	return acc
}

// open reconstructs a masked value, returning its centered lift.
func (p *Provider) open(shares []*saferith.Nat) (*big.Int, error) {
	p.openings.Add(1)
	v := p.field.Lift(p.sum(shares))
	if v.CmpAbs(p.bound) >= 0 {
		return nil, ErrRange
	}
	return v, nil
}

// mul computes ⟨x⋅y⟩ with a Beaver triple:
// d = x - a and e = y - b are opened, then ⟨z⟩ = ⟨c⟩ + d⋅⟨b⟩ + e⋅⟨a⟩ + d⋅e.
func (p *Provider) mul(x, y []*saferith.Nat) []*saferith.Nat {
	t := p.dealer.triple()
	dShares := make([]*saferith.Nat, len(x))
	eShares := make([]*saferith.Nat, len(x))
	for i := range x {
		dShares[i] = p.field.Sub(x[i], t.a[i])
		eShares[i] = p.field.Sub(y[i], t.b[i])
	}
	// d and e are uniform in the field and disclose nothing
	p.openings.Add(2)
	d, e := p.sum(dShares), p.sum(eShares)

	z := make([]*saferith.Nat, len(x))
	for i := range z {
		z[i] = p.field.Add(t.c[i], p.field.Mul(d, t.b[i]))
		z[i] = p.field.Add(z[i], p.field.Mul(e, t.a[i]))
	}
	z[0] = p.field.Add(z[0], p.field.Mul(d, e))
	return z
}

// truncate returns ⟨⌊x/divisor⌋⟩, possibly one too large, for |x| < 2^TruncationBits.
//
// With bias B = divisor⋅2^TruncationBits, the holders open c = x + B + r, which is positive and
// smaller than the field order, and output ⌊c/divisor⌋ - 2^TruncationBits - ⟨⌊r/divisor⌋⟩.
func (p *Provider) truncate(x []*saferith.Nat, divisor *big.Int) ([]*saferith.Nat, error) {
	// r must fit in the field with room for x + B
	if params.TruncationBits+params.StatParam+3+divisor.BitLen() >= p.field.BitLen() {
		return nil, ErrRange
	}
	r, q := p.dealer.truncation(divisor)
	masked := make([]*saferith.Nat, len(x))
	for i := range x {
		masked[i] = p.field.Add(x[i], r[i])
	}
	bias := new(big.Int).Mul(divisor, p.bound)
	p.openings.Add(1)
	c := p.field.Add(p.sum(masked), p.field.FromBig(bias)).Big()

	t := new(big.Int).Quo(c, divisor)
	t.Sub(t, p.bound)

	out := p.neg(q)
	out[0] = p.field.Add(out[0], p.field.FromBig(t))
	return out, nil
}

func pow10(s fixedpoint.Scale) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s)), nil)
}
