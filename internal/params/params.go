package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8
	StatParam = 40

	// TruncationBits bounds the magnitude of any value that is truncated or compared by the
	// additive provider: |x| < 2^TruncationBits.
	// Masks are sampled StatParam bits wider, which statistically hides the opened value.
	TruncationBits = 128

	// MaskBits is the size of the positive multiplicative masks used for division and comparison.
	MaskBits = 32
)

// Defaults of a colony run.
const (
	Iterations = 80
	Colony     = 50
	Alpha      = 1
	Beta       = 1
	DeltaTau   = 1.0
	Rho        = 0.5

	// Scale is the number of decimal digits of the fixed-point encoding.
	Scale = 8

	// Parties is the default number of share holders of the additive provider.
	Parties = 3
)
