package aco

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/pool"
)

// Config holds the parameters of a colony run.
type Config struct {
	// Iterations is the number of colony moves, with no early exit.
	Iterations int
	// Colony is the number of ants placed at the start of every iteration.
	Colony int

	// Alpha and Beta weight the inverse distance and the pheromone level of a candidate.
	// Only 1 is supported.
	Alpha, Beta int

	// DeltaTau is deposited on every edge an ant traverses.
	DeltaTau float64
	// Rho is the evaporation rate. Every iteration the trail is divided by 1/Rho.
	Rho float64

	// Scale is the number of decimal digits of the fixed-point encoding. It must match the
	// provider's scale.
	Scale fixedpoint.Scale

	// Seed drives the start positions of the ants.
	Seed int64

	// Pool runs the ants of an iteration concurrently. A nil Pool runs them one by one.
	Pool *pool.Pool
	// Logger receives progress events. A nil Logger discards them.
	Logger *zerolog.Logger
}

// DefaultConfig returns the parameters the colony is usually run with.
func DefaultConfig() Config {
	return Config{
		Iterations: params.Iterations,
		Colony:     params.Colony,
		Alpha:      params.Alpha,
		Beta:       params.Beta,
		DeltaTau:   params.DeltaTau,
		Rho:        params.Rho,
		Scale:      params.Scale,
		Seed:       1,
	}
}

// Validate ensures that the configuration can be run. In particular it verifies:
// - at least one iteration and one ant
// - α = β = 1
// - del_tau is finite, non-negative and representable
// - 1/rho is finite and does not encode to zero.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations %d < 1", ErrInvalidConfiguration, c.Iterations)
	}
	if c.Colony < 1 {
		return fmt.Errorf("%w: colony %d < 1", ErrInvalidConfiguration, c.Colony)
	}
	if c.Alpha != 1 || c.Beta != 1 {
		return fmt.Errorf("%w: exponents (%d, %d) must both be 1", ErrInvalidConfiguration, c.Alpha, c.Beta)
	}
	codec, err := fixedpoint.NewCodec(c.Scale)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if c.DeltaTau < 0 {
		return fmt.Errorf("%w: del_tau %g < 0", ErrInvalidConfiguration, c.DeltaTau)
	}
	if _, err = codec.Encode(c.DeltaTau); err != nil {
		return fmt.Errorf("%w: del_tau: %v", ErrInvalidConfiguration, err)
	}
	if _, err = c.divisor(codec); err != nil {
		return err
	}
	return nil
}

// divisor returns the encoding of 1/rho.
func (c Config) divisor(codec fixedpoint.Codec) (int64, error) {
	if math.IsNaN(c.Rho) || c.Rho <= 0 {
		return 0, fmt.Errorf("%w: rho %g must be positive", ErrInvalidConfiguration, c.Rho)
	}
	d, err := codec.Encode(1 / c.Rho)
	if err != nil {
		return 0, fmt.Errorf("%w: 1/rho: %v", ErrInvalidConfiguration, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("%w: 1/rho rounds to zero at scale %d", ErrInvalidConfiguration, c.Scale)
	}
	return d, nil
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

type configMarshal struct {
	Iterations  int
	Colony      int
	Alpha, Beta int
	DeltaTau    float64
	Rho         float64
	Scale       fixedpoint.Scale
	Seed        int64
}

// MarshalBinary encodes the run parameters. Pool and Logger are not part of the encoding.
func (c *Config) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&configMarshal{
		Iterations: c.Iterations,
		Colony:     c.Colony,
		Alpha:      c.Alpha,
		Beta:       c.Beta,
		DeltaTau:   c.DeltaTau,
		Rho:        c.Rho,
		Scale:      c.Scale,
		Seed:       c.Seed,
	})
}

// UnmarshalBinary decodes parameters produced by MarshalBinary, leaving Pool and Logger untouched.
func (c *Config) UnmarshalBinary(data []byte) error {
	var cm configMarshal
	if err := cbor.Unmarshal(data, &cm); err != nil {
		return fmt.Errorf("aco: config: %w", err)
	}
	c.Iterations = cm.Iterations
	c.Colony = cm.Colony
	c.Alpha, c.Beta = cm.Alpha, cm.Beta
	c.DeltaTau = cm.DeltaTau
	c.Rho = cm.Rho
	c.Scale = cm.Scale
	c.Seed = cm.Seed
	return nil
}
