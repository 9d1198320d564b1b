// Package secret defines the arithmetic capability the colony engine consumes.
//
// A Provider operates on opaque secret-shared fixed-point values. Every Value carries the
// decimal scale it is encoded at; operations only accept operands of equal scale, and a
// product is reported at the doubled scale until it is rescaled. Reveal is the only
// operation that returns a plaintext.
package secret

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
)

var (
	// ErrScaleMismatch is returned when operands are encoded at different scales.
	ErrScaleMismatch = errors.New("secret: operands have different scales")
	// ErrForeignValue is returned when a provider receives a Value it did not produce.
	ErrForeignValue = errors.New("secret: value belongs to another provider")
	// ErrExponent is returned by Power for exponents smaller than 1.
	ErrExponent = errors.New("secret: exponent must be at least 1")
)

// Value is an opaque secret-shared fixed-point number.
type Value interface {
	// Scale returns the number of decimal digits the value is encoded with.
	Scale() fixedpoint.Scale
}

// Provider performs arithmetic on secret values.
//
// Implementations must be safe for concurrent use, since the ants of a colony share a provider.
type Provider interface {
	// Scale is the scale of every value created by Share, Rescale and DivideApprox.
	Scale() fixedpoint.Scale

	// Share secret-shares an already encoded integer at the provider's scale.
	Share(raw int64) (Value, error)

	// Add returns a + b.
	Add(a, b Value) (Value, error)

	// Multiply returns a ⋅ b at scale a.Scale() + b.Scale().
	// The caller is responsible for calling Rescale before storing or comparing the product.
	Multiply(a, b Value) (Value, error)

	// Rescale truncates a value back to the provider's scale. The result may be off by one unit
	// in the last place.
	Rescale(a Value) (Value, error)

	// DivideApprox returns an approximation of a / b at the operand scale.
	// Dividing by a secret zero yields a secret zero.
	DivideApprox(a, b Value) (Value, error)

	// Reveal returns the encoded plaintext of a.
	Reveal(a Value) (int64, error)
}

// Comparator resolves the order of two secret values.
//
// The result is -1, 0 or 1 as in cmp.Compare. What else an implementation discloses while
// comparing depends on its protocol and is documented by each implementation.
type Comparator interface {
	Compare(a, b Value) (int, error)
}

// ComparingProvider is a Provider that can also compare.
type ComparingProvider interface {
	Provider
	Comparator
}

// CheckScales returns ErrScaleMismatch unless all values share the same scale.
func CheckScales(values ...Value) error {
	for i := 1; i < len(values); i++ {
		if values[i].Scale() != values[0].Scale() {
			return fmt.Errorf("%w: %d and %d", ErrScaleMismatch, values[0].Scale(), values[i].Scale())
		}
	}
	return nil
}

// Zero returns a fresh secret zero.
func Zero(p Provider) (Value, error) {
	return p.Share(0)
}

// Power returns aⁿ. n = 1 is the identity and costs nothing; larger exponents are evaluated as a
// chain of n-1 multiplications, each immediately rescaled.
func Power(p Provider, a Value, n int) (Value, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrExponent, n)
	}
	result := a
	for i := 1; i < n; i++ {
		product, err := p.Multiply(result, a)
		if err != nil {
			return nil, fmt.Errorf("secret: power: %w", err)
		}
		if result, err = p.Rescale(product); err != nil {
			return nil, fmt.Errorf("secret: power: %w", err)
		}
	}
	return result, nil
}

// Sum returns the sum of values, or a secret zero if there are none.
func Sum(p Provider, values ...Value) (Value, error) {
	if len(values) == 0 {
		return Zero(p)
	}
	acc := values[0]
	for _, v := range values[1:] {
		var err error
		if acc, err = p.Add(acc, v); err != nil {
			return nil, fmt.Errorf("secret: sum: %w", err)
		}
	}
	return acc, nil
}
