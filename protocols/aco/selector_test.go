package aco

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/party"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"github.com/taurusgroup/secure-aco/pkg/secret/additive"
	"github.com/taurusgroup/secure-aco/pkg/secret/plain"
)

func newTestSelector(t *testing.T, p secret.ComparingProvider, nodes []Node) (*selector, *Trail) {
	t.Helper()
	d, err := NewDistanceMatrix(nodes)
	require.NoError(t, err)
	m, err := EncryptMatrices(p, fixedpoint.MustCodec(p.Scale()), d)
	require.NoError(t, err)
	s, err := newSelector(p, m, 1, 1)
	require.NoError(t, err)
	trail, err := NewTrail(p, d.Dim())
	require.NoError(t, err)
	return s, trail
}

func TestSelector_Nearest(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	s, trail := newTestSelector(t, p, []Node{{0, 0}, {5, 0}, {0, 2}, {3, 3}})

	next, err := s.next(trail, 0, []bool{true, false, false, false})
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	// enough pheromone outweighs distance
	heavy, _ := p.Share(100_000_000)
	require.NoError(t, trail.Deposit(0, 1, heavy))
	next, err = s.next(trail, 0, []bool{true, false, false, false})
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestSelector_LastCandidate(t *testing.T) {
	p, err := plain.New(8)
	require.NoError(t, err)
	s, trail := newTestSelector(t, p, square())

	next, err := s.next(trail, 2, []bool{true, true, true, false})
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	assert.Zero(t, p.Comparisons())

	_, err = s.next(trail, 2, []bool{true, true, true, true})
	assert.ErrorIs(t, err, ErrDegenerateSelection)
	_, err = s.next(trail, 2, []bool{true, true, false})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSelector_ResolveSkipsVisited(t *testing.T) {
	p, err := plain.New(0)
	require.NoError(t, err)
	s := &selector{provider: p}
	w := func(x int64) secret.Value {
		v, _ := p.Share(x)
		return v
	}

	// ties go to the lowest index, which is visited here
	got, err := s.resolve([]secret.Value{w(0), w(0), w(0)}, []bool{true, false, false})
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// a visited node with a stale weight still cannot win
	got, err = s.resolve([]secret.Value{w(1), w(9), w(3), w(5)}, []bool{false, true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = s.resolve([]secret.Value{w(1), w(2)}, []bool{true, true})
	assert.ErrorIs(t, err, ErrDegenerateSelection)
}

func TestSelector_NeverSelectsVisited(t *testing.T) {
	plainProvider, err := plain.New(8)
	require.NoError(t, err)
	additiveProvider, err := additive.NewSeeded(party.Numbered(3), 8, 3)
	require.NoError(t, err)

	for _, p := range []secret.ComparingProvider{plainProvider, additiveProvider} {
		for seed := int64(0); seed < 10; seed++ {
			r := mrand.New(mrand.NewSource(seed))
			n := 3 + r.Intn(5)
			nodes := make([]Node, n)
			for i := range nodes {
				// a coarse grid produces coincident nodes and equal distances
				nodes[i] = Node{X: float64(r.Intn(3)), Y: float64(r.Intn(3))}
			}
			s, trail := newTestSelector(t, p, nodes)

			visited := make([]bool, n)
			node := r.Intn(n)
			visited[node] = true
			for step := 1; step < n; step++ {
				next, err := s.next(trail, node, visited)
				require.NoError(t, err)
				require.False(t, visited[next], "seed %d: node %d selected twice", seed, next)
				visited[next] = true
				node = next
			}
		}
	}
}
