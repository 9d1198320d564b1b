package fixedpoint

import (
	"errors"
	"fmt"
	"math"
)

// MaxScale is the largest supported number of decimal digits.
// A product of two encoded values carries twice the scale, and 10^(2⋅MaxScale) must fit an int64.
const MaxScale Scale = 9

var (
	ErrScale    = errors.New("fixedpoint: scale out of range")
	ErrOverflow = errors.New("fixedpoint: value does not fit the encoding")
	ErrNotReal  = errors.New("fixedpoint: value is NaN or infinite")
)

// Scale is the decimal exponent P of a fixed-point encoding x ↦ round(x⋅10ᴾ).
type Scale uint8

// Valid returns an error if s cannot be used by a Codec.
func (s Scale) Valid() error {
	if s > MaxScale {
		return fmt.Errorf("%w: %d > %d", ErrScale, s, MaxScale)
	}
	return nil
}

// Factor returns 10ˢ.
func (s Scale) Factor() int64 {
	f := int64(1)
	for i := Scale(0); i < s; i++ {
		f *= 10
	}
	return f
}

// Codec converts between real numbers and scaled integers.
type Codec struct {
	scale  Scale
	factor float64
}

// NewCodec returns a Codec for 10ᵖ.
func NewCodec(p Scale) (Codec, error) {
	if err := p.Valid(); err != nil {
		return Codec{}, err
	}
	return Codec{scale: p, factor: float64(p.Factor())}, nil
}

// MustCodec is like NewCodec but panics on an invalid scale.
func MustCodec(p Scale) Codec {
	c, err := NewCodec(p)
	if err != nil {
		panic(err)
	}
	return c
}

// Scale returns P.
func (c Codec) Scale() Scale { return c.scale }

// Encode returns round(x⋅10ᴾ).
func (c Codec) Encode(x float64) (int64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, ErrNotReal
	}
	v := math.Round(x * c.factor)
	// float64(math.MaxInt64) rounds up to 2⁶³, which is already out of range
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%w: %g at scale %d", ErrOverflow, x, c.scale)
	}
	return int64(v), nil
}

// Decode returns v/10ᴾ.
func (c Codec) Decode(v int64) float64 {
	return float64(v) / c.factor
}

// Resolution is the smallest representable step 10⁻ᴾ.
func (c Codec) Resolution() float64 {
	return 1 / c.factor
}
