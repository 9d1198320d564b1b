// Package aco runs Ant Colony Optimization for the symmetric traveling salesman problem over
// secret-shared fixed-point values.
//
// Distances, inverse distances, pheromone levels and selection weights only ever exist as
// secret.Value. The node coordinates and the node indices chosen by the ants are public.
// The engine reveals exactly one value per iteration: the length of the shortest tour of that
// iteration. Selection and the choice of that shortest tour also rely on the provider's
// Compare, whose disclosure depends on the provider.
package aco

import (
	"context"
	"fmt"
	mrand "math/rand"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/taurusgroup/secure-aco/pkg/hash"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/pool"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// State is the phase of a run.
type State int

const (
	Initializing State = iota
	ColonyMove
	Evaporate
	Evaluate
	Terminate
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case ColonyMove:
		return "colony-move"
	case Evaporate:
		return "evaporate"
	case Evaluate:
		return "evaluate"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Engine drives the iterations of a colony.
// It is not safe for concurrent use; parallelism happens inside an iteration through Config.Pool.
type Engine struct {
	config   Config
	codec    fixedpoint.Codec
	provider secret.ComparingProvider

	distances DistanceMatrix
	matrices  *EncryptedMatrices
	trail     *Trail
	selector  *selector
	tracker   Tracker

	// deposit = ⟨del_tau⟩
	deposit secret.Value
	// divisor = ⟨1/rho⟩
	divisor secret.Value

	rand      *mrand.Rand
	state     State
	iteration int
	reveals   int
	// aborted holds the error of a failed iteration, after which the trail may be partially updated
	aborted error

	runID []byte
	log   zerolog.Logger
}

// ant is the outcome of one path construction.
type ant struct {
	tour  Tour
	delta *Delta
	err   error
}

// NewEngine validates config, then builds and shares the distance matrices of nodes and an
// empty pheromone trail.
func NewEngine(config Config, p secret.ComparingProvider, nodes []Node) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if p.Scale() != config.Scale {
		return nil, fmt.Errorf("aco: %w: config %d, provider %d", secret.ErrScaleMismatch, config.Scale, p.Scale())
	}
	codec := fixedpoint.MustCodec(config.Scale)

	distances, err := NewDistanceMatrix(nodes)
	if err != nil {
		return nil, err
	}
	matrices, err := EncryptMatrices(p, codec, distances)
	if err != nil {
		return nil, err
	}
	trail, err := NewTrail(p, distances.Dim())
	if err != nil {
		return nil, err
	}
	if trail.Dim() != matrices.Dim() {
		return nil, fmt.Errorf("%w: trail %d, distances %d", ErrDimensionMismatch, trail.Dim(), matrices.Dim())
	}
	sel, err := newSelector(p, matrices, config.Alpha, config.Beta)
	if err != nil {
		return nil, err
	}

	rawDeposit, _ := codec.Encode(config.DeltaTau)
	rawDivisor, _ := config.divisor(codec)
	deposit, err := p.Share(rawDeposit)
	if err != nil {
		return nil, fmt.Errorf("aco: del_tau: %w", err)
	}
	divisor, err := p.Share(rawDivisor)
	if err != nil {
		return nil, fmt.Errorf("aco: 1/rho: %w", err)
	}

	runID, err := computeRunID(config, nodes)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:    config,
		codec:     codec,
		provider:  p,
		distances: distances,
		matrices:  matrices,
		trail:     trail,
		selector:  sel,
		deposit:   deposit,
		divisor:   divisor,
		rand:      mrand.New(mrand.NewSource(config.Seed)),
		state:     Initializing,
		runID:     runID,
	}
	logger := config.logger()
	e.log = logger.With().
		Str("protocol", "aco").
		Hex("run", runID[:8]).
		Logger()
	return e, nil
}

// Solve is NewEngine followed by Run.
func Solve(ctx context.Context, config Config, p secret.ComparingProvider, nodes []Node) (*Result, error) {
	e, err := NewEngine(config, p, nodes)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// State returns the phase the engine is in.
func (e *Engine) State() State { return e.state }

// Iteration returns the number of completed iterations.
func (e *Engine) Iteration() int { return e.iteration }

// RunID identifies the configuration and instance of this run.
func (e *Engine) RunID() []byte { return append([]byte(nil), e.runID...) }

// Run performs the remaining iterations and returns the best tour.
//
// ctx is checked between iterations only, and a cancelled run can be resumed by calling Run again.
// Once an iteration has failed the engine is terminated and Run returns ErrAborted.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.aborted != nil {
		return nil, fmt.Errorf("%w at iteration %d: %w", ErrAborted, e.iteration, e.aborted)
	}
	e.log.Info().
		Int("nodes", e.distances.Dim()).
		Int("colony", e.config.Colony).
		Int("iterations", e.config.Iterations).
		Int("workers", e.config.Pool.Workers()).
		Msg("start")

	for e.iteration < e.config.Iterations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aco: iteration %d: %w", e.iteration, err)
		}
		if err := e.iterate(); err != nil {
			e.log.Error().Err(err).Int("iteration", e.iteration).Stringer("state", e.state).Msg("aborted")
			e.aborted = err
			e.state = Terminate
			return nil, err
		}
	}
	e.state = Terminate

	result := e.result()
	e.log.Info().Float64("length", result.Length).Ints("tour", result.Tour).Msg("done")
	return result, nil
}

// iterate runs ColonyMove, Evaporate and Evaluate once.
func (e *Engine) iterate() error {
	e.state = ColonyMove
	n := e.distances.Dim()
	starts := make([]int, e.config.Colony)
	for i := range starts {
		starts[i] = e.rand.Intn(n)
	}
	snapshot := e.trail.Snapshot()
	ants := pool.Map(e.config.Pool, len(starts), func(i int) *ant {
		return e.construct(snapshot, starts[i])
	})

	deltas := make([]*Delta, len(ants))
	tours := make([]Tour, len(ants))
	for i, a := range ants {
		if a.err != nil {
			return fmt.Errorf("aco: ant %d: %w", i, a.err)
		}
		deltas[i], tours[i] = a.delta, a.tour
	}
	if err := e.trail.Merge(deltas...); err != nil {
		return err
	}

	e.state = Evaporate
	if err := e.trail.Evaporate(e.divisor); err != nil {
		return err
	}

	e.state = Evaluate
	best, length, err := e.evaluate(tours)
	if err != nil {
		return err
	}
	improved := e.tracker.Offer(tours[best], length)
	e.tracker.Record()

	_, bestLength, _ := e.tracker.Best()
	e.log.Debug().
		Int("iteration", e.iteration).
		Float64("length", e.codec.Decode(length)).
		Float64("best", e.codec.Decode(bestLength)).
		Bool("improved", improved).
		Msg("iteration done")
	e.iteration++
	return nil
}

// construct walks an ant from start through every node, choosing each step with the selector
// against a fixed snapshot of the trail. Deposits go to a private delta.
func (e *Engine) construct(trail *Trail, start int) *ant {
	n := trail.Dim()
	visited := make([]bool, n)
	visited[start] = true
	path := make([]int, 1, n)
	path[0] = start
	delta := NewDelta(n)

	for node := start; len(path) < n; {
		next, err := e.selector.next(trail, node, visited)
		if err != nil {
			return &ant{err: fmt.Errorf("step %d: %w", len(path), err)}
		}
		if err = delta.Deposit(e.provider, node, next, e.deposit); err != nil {
			return &ant{err: err}
		}
		visited[next] = true
		path = append(path, next)
		node = next
	}
	return &ant{tour: closeTour(path), delta: delta}
}

// evaluate returns the index of the shortest tour, ties going to the lowest index, and its
// revealed length. It is the only place the engine reveals a value.
func (e *Engine) evaluate(tours []Tour) (int, int64, error) {
	lengths := make([]secret.Value, len(tours))
	var g errgroup.Group
	g.SetLimit(e.config.Pool.Workers())
	for i := range tours {
		i := i
		g.Go(func() error {
			v, err := e.encryptedLength(tours[i])
			if err != nil {
				return fmt.Errorf("aco: length of tour %d: %w", i, err)
			}
			lengths[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	best := 0
	for i := 1; i < len(lengths); i++ {
		cmp, err := e.provider.Compare(lengths[i], lengths[best])
		if err != nil {
			return 0, 0, fmt.Errorf("aco: shortest tour: %w", err)
		}
		if cmp < 0 {
			best = i
		}
	}
	raw, err := e.provider.Reveal(lengths[best])
	if err != nil {
		return 0, 0, fmt.Errorf("aco: reveal length: %w", err)
	}
	e.reveals++
	return best, raw, nil
}

func (e *Engine) encryptedLength(tour Tour) (secret.Value, error) {
	edges := make([]secret.Value, 0, len(tour)-1)
	for k := 1; k < len(tour); k++ {
		edges = append(edges, e.matrices.Distance[tour[k-1]][tour[k]])
	}
	return secret.Sum(e.provider, edges...)
}

func (e *Engine) result() *Result {
	tour, length, _ := e.tracker.Best()
	history := e.tracker.History()
	decoded := make([]float64, len(history))
	for i, h := range history {
		decoded[i] = e.codec.Decode(h)
	}
	return &Result{
		RunID:      e.RunID(),
		Tour:       slices.Clone(tour),
		Length:     e.codec.Decode(length),
		RawLength:  length,
		Scale:      e.config.Scale,
		Iterations: e.iteration,
		History:    decoded,
		Reveals:    e.reveals,
	}
}

func computeRunID(config Config, nodes []Node) ([]byte, error) {
	data, err := config.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("aco: run id: %w", err)
	}
	h := hash.New()
	if err = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Config", Bytes: data}, len(nodes)); err != nil {
		return nil, fmt.Errorf("aco: run id: %w", err)
	}
	for _, node := range nodes {
		if err = h.WriteAny(node.X, node.Y); err != nil {
			return nil, fmt.Errorf("aco: run id: %w", err)
		}
	}
	return h.Sum()[:params.SecBytes], nil
}
