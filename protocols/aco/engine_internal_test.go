package aco

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/pkg/party"
	"github.com/taurusgroup/secure-aco/pkg/pool"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"github.com/taurusgroup/secure-aco/pkg/secret/additive"
	"github.com/taurusgroup/secure-aco/pkg/secret/plain"
)

func testProviders(t *testing.T) map[string]secret.ComparingProvider {
	t.Helper()
	transparent, err := plain.New(8)
	require.NoError(t, err)
	shared, err := additive.NewSeeded(party.Numbered(3), 8, 11)
	require.NoError(t, err)
	return map[string]secret.ComparingProvider{"plain": transparent, "additive": shared}
}

func TestEngine_GreedyFromFirstCorner(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	config := DefaultConfig()
	config.Colony, config.Iterations = 1, 1
	e, err := NewEngine(config, p, square())
	require.NoError(t, err)
	assert.Equal(t, Initializing, e.State())

	a := e.construct(e.trail.Snapshot(), 0)
	require.NoError(t, a.err)
	assert.Equal(t, Tour{0, 1, 2, 3, 0}, a.tour)
	assert.Equal(t, 4.0, e.distances.Length(a.tour))
	assert.Equal(t, 3, a.delta.Len())
}

func TestEngine_ZeroActivity(t *testing.T) {
	for name, p := range testProviders(t) {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			config.Iterations, config.Colony = 4, 3
			config.Rho, config.DeltaTau = 1, 0
			e, err := NewEngine(config, p, []Node{{0, 0}, {3, 1}, {1, 4}, {5, 5}, {2, 2}})
			require.NoError(t, err)

			for i := 0; i < config.Iterations; i++ {
				require.NoError(t, e.iterate())
				assert.Equal(t, Evaluate, e.State())
				cells := revealTrail(t, p, e.trail)
				require.Len(t, cells, 5)
				for _, row := range cells {
					assert.Equal(t, []int64{0, 0, 0, 0, 0}, row)
				}
			}
		})
	}
}

func TestEngine_TrailKeepsShape(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	config := DefaultConfig()
	config.Iterations, config.Colony = 3, 4
	e, err := NewEngine(config, p, []Node{{0, 0}, {1, 3}, {4, 1}, {2, 2}, {3, 4}, {0, 5}})
	require.NoError(t, err)

	for i := 0; i < config.Iterations; i++ {
		require.NoError(t, e.iterate())
		require.Equal(t, 6, e.trail.Dim())
		for _, row := range e.trail.cells {
			require.Len(t, row, 6)
		}
	}
	// every ant deposits on 5 edges, then the trail is halved
	cells := revealTrail(t, p, e.trail)
	var total int64
	for _, row := range cells {
		for _, c := range row {
			assert.GreaterOrEqual(t, c, int64(0))
			total += c
		}
	}
	assert.Positive(t, total)
}

func TestEngine_RevealsOncePerIteration(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	config := DefaultConfig()
	config.Iterations, config.Colony = 5, 4
	pl := pool.NewPool(2)
	defer pl.TearDown()
	config.Pool = pl

	result, err := Solve(context.Background(), config, p, square())
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Reveals())
	assert.Equal(t, 5, result.Reveals)
}

func TestEngine_RunRefusesAfterFailure(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	other, err := additive.NewSeeded(party.Numbered(2), 8, 1)
	require.NoError(t, err)
	config := DefaultConfig()
	config.Iterations, config.Colony = 3, 2
	e, err := NewEngine(config, p, square())
	require.NoError(t, err)

	// a divisor from another provider makes evaporation fail after the deposits were merged
	e.divisor, err = other.Share(200_000_000)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	require.ErrorIs(t, err, secret.ErrForeignValue)
	assert.NotErrorIs(t, err, ErrAborted)
	assert.Equal(t, Terminate, e.State())
	assert.Zero(t, e.Iteration())

	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, secret.ErrForeignValue)
	assert.Zero(t, e.Iteration())
}
