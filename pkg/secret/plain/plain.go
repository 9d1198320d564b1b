// Package plain is a transparent secret.Provider: values are held in the clear as exact
// fixed-point integers.
//
// It provides no secrecy at all. It exists to test the engine against exact arithmetic and
// to count how often the engine discloses or compares values.
package plain

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/secret"
)

type value struct {
	scale fixedpoint.Scale
	x     *big.Int
}

// Scale implements secret.Value.
func (v *value) Scale() fixedpoint.Scale { return v.scale }

// Provider implements secret.ComparingProvider.
type Provider struct {
	scale       fixedpoint.Scale
	reveals     atomic.Int64
	comparisons atomic.Int64
}

// New returns a Provider at scale p.
func New(p fixedpoint.Scale) (*Provider, error) {
	if err := p.Valid(); err != nil {
		return nil, fmt.Errorf("plain: %w", err)
	}
	return &Provider{scale: p}, nil
}

// Scale implements secret.Provider.
func (p *Provider) Scale() fixedpoint.Scale { return p.scale }

// Share implements secret.Provider.
func (p *Provider) Share(raw int64) (secret.Value, error) {
	return &value{scale: p.scale, x: big.NewInt(raw)}, nil
}

// Add implements secret.Provider.
func (p *Provider) Add(a, b secret.Value) (secret.Value, error) {
	x, y, err := operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("plain: add: %w", err)
	}
	return &value{scale: x.scale, x: new(big.Int).Add(x.x, y.x)}, nil
}

// Multiply implements secret.Provider.
func (p *Provider) Multiply(a, b secret.Value) (secret.Value, error) {
	x, y, err := operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("plain: multiply: %w", err)
	}
	return &value{scale: x.scale + y.scale, x: new(big.Int).Mul(x.x, y.x)}, nil
}

// Rescale implements secret.Provider, truncating toward zero.
func (p *Provider) Rescale(a secret.Value) (secret.Value, error) {
	x, err := cast(a)
	if err != nil {
		return nil, fmt.Errorf("plain: rescale: %w", err)
	}
	if x.scale < p.scale {
		return nil, fmt.Errorf("plain: rescale: %w: %d below %d", secret.ErrScaleMismatch, x.scale, p.scale)
	}
	d := pow10(x.scale - p.scale)
	return &value{scale: p.scale, x: new(big.Int).Quo(x.x, d)}, nil
}

// DivideApprox implements secret.Provider. The quotient is truncated toward zero, so it is exact
// up to one unit in the last place.
func (p *Provider) DivideApprox(a, b secret.Value) (secret.Value, error) {
	x, y, err := operands(a, b)
	if err != nil {
		return nil, fmt.Errorf("plain: divide: %w", err)
	}
	if y.x.Sign() == 0 {
		return &value{scale: x.scale, x: new(big.Int)}, nil
	}
	n := new(big.Int).Mul(x.x, pow10(x.scale))
	return &value{scale: x.scale, x: n.Quo(n, y.x)}, nil
}

// Reveal implements secret.Provider.
func (p *Provider) Reveal(a secret.Value) (int64, error) {
	x, err := cast(a)
	if err != nil {
		return 0, fmt.Errorf("plain: reveal: %w", err)
	}
	if !x.x.IsInt64() {
		return 0, fmt.Errorf("plain: reveal: %w", fixedpoint.ErrOverflow)
	}
	p.reveals.Add(1)
	return x.x.Int64(), nil
}

// Compare implements secret.Comparator.
func (p *Provider) Compare(a, b secret.Value) (int, error) {
	x, y, err := operands(a, b)
	if err != nil {
		return 0, fmt.Errorf("plain: compare: %w", err)
	}
	p.comparisons.Add(1)
	return x.x.Cmp(y.x), nil
}

// Reveals returns the number of successful Reveal calls.
func (p *Provider) Reveals() int64 { return p.reveals.Load() }

// Comparisons returns the number of successful Compare calls.
func (p *Provider) Comparisons() int64 { return p.comparisons.Load() }

func pow10(s fixedpoint.Scale) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s)), nil)
}

func cast(a secret.Value) (*value, error) {
	x, ok := a.(*value)
	if !ok || x == nil {
		return nil, secret.ErrForeignValue
	}
	return x, nil
}

func operands(a, b secret.Value) (*value, *value, error) {
	x, err := cast(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := cast(b)
	if err != nil {
		return nil, nil, err
	}
	if err = secret.CheckScales(x, y); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
