package aco

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
)

// Result is the output of a run.
type Result struct {
	// RunID identifies the configuration and instance.
	RunID []byte
	// Tour is the best closed tour.
	Tour Tour
	// Length is the revealed length of Tour.
	Length float64
	// RawLength is the fixed-point encoding of Length at Scale.
	RawLength int64
	Scale     fixedpoint.Scale
	// Iterations is the number of iterations performed.
	Iterations int
	// History holds the best length after every iteration.
	History []float64
	// Reveals counts the values the engine revealed.
	Reveals int
}

type resultMarshal struct {
	RunID      []byte
	Tour       []int
	RawLength  int64
	Scale      fixedpoint.Scale
	Iterations int
	History    []float64
	Reveals    int
}

// MarshalBinary encodes the result with CBOR.
func (r *Result) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&resultMarshal{
		RunID:      r.RunID,
		Tour:       r.Tour,
		RawLength:  r.RawLength,
		Scale:      r.Scale,
		Iterations: r.Iterations,
		History:    r.History,
		Reveals:    r.Reveals,
	})
}

// UnmarshalBinary decodes a result produced by MarshalBinary.
func (r *Result) UnmarshalBinary(data []byte) error {
	var rm resultMarshal
	if err := cbor.Unmarshal(data, &rm); err != nil {
		return fmt.Errorf("aco: result: %w", err)
	}
	codec, err := fixedpoint.NewCodec(rm.Scale)
	if err != nil {
		return fmt.Errorf("aco: result: %w", err)
	}
	*r = Result{
		RunID:      rm.RunID,
		Tour:       rm.Tour,
		Length:     codec.Decode(rm.RawLength),
		RawLength:  rm.RawLength,
		Scale:      rm.Scale,
		Iterations: rm.Iterations,
		History:    rm.History,
		Reveals:    rm.Reveals,
	}
	return nil
}
