package aco

import (
	"fmt"

	"github.com/taurusgroup/secure-aco/pkg/secret"
)

// selector chooses the next node of an ant.
//
// The desirability of a candidate c from node is inv[node][c]^α + trail[node][c]^β, normalized
// by the sum over all unvisited candidates. Visited candidates get an encrypted zero weight,
// and the candidate of maximum weight is resolved with the provider's Compare.
// Only the index of the winner becomes known.
type selector struct {
	provider secret.ComparingProvider
	inverse  [][]secret.Value
	alpha    int
	beta     int
	// zero is the weight of a visited candidate
	zero secret.Value
}

func newSelector(p secret.ComparingProvider, m *EncryptedMatrices, alpha, beta int) (*selector, error) {
	zero, err := secret.Zero(p)
	if err != nil {
		return nil, fmt.Errorf("aco: selector: %w", err)
	}
	return &selector{provider: p, inverse: m.Inverse, alpha: alpha, beta: beta, zero: zero}, nil
}

// next returns the node an ant standing on node moves to, given which nodes it already visited.
func (s *selector) next(trail *Trail, node int, visited []bool) (int, error) {
	if trail.Dim() != len(s.inverse) || len(visited) != len(s.inverse) {
		return 0, fmt.Errorf("%w: trail %d, inverse %d, visited %d",
			ErrDimensionMismatch, trail.Dim(), len(s.inverse), len(visited))
	}

	var candidates []int
	for c, v := range visited {
		if !v {
			candidates = append(candidates, c)
		}
	}
	switch len(candidates) {
	case 0:
		return 0, ErrDegenerateSelection
	case 1:
		return candidates[0], nil
	}

	weights, err := s.weights(trail, node, candidates)
	if err != nil {
		return 0, err
	}
	return s.resolve(weights, visited)
}

// weights returns the normalized weight of every node, with visited nodes masked to zero.
func (s *selector) weights(trail *Trail, node int, candidates []int) ([]secret.Value, error) {
	scores := make([]secret.Value, len(candidates))
	for k, c := range candidates {
		eta, err := secret.Power(s.provider, s.inverse[node][c], s.alpha)
		if err != nil {
			return nil, fmt.Errorf("aco: score of %d: %w", c, err)
		}
		tau, err := secret.Power(s.provider, trail.At(node, c), s.beta)
		if err != nil {
			return nil, fmt.Errorf("aco: score of %d: %w", c, err)
		}
		if scores[k], err = s.provider.Add(eta, tau); err != nil {
			return nil, fmt.Errorf("aco: score of %d: %w", c, err)
		}
	}
	total, err := secret.Sum(s.provider, scores...)
	if err != nil {
		return nil, fmt.Errorf("aco: total score: %w", err)
	}

	weights := make([]secret.Value, len(trail.cells))
	for c := range weights {
		weights[c] = s.zero
	}
	for k, c := range candidates {
		if weights[c], err = s.provider.DivideApprox(scores[k], total); err != nil {
			return nil, fmt.Errorf("aco: weight of %d: %w", c, err)
		}
	}
	return weights, nil
}

// resolve returns the unvisited node of maximum weight. Ties go to the lowest index.
// A visited winner is excluded and the maximum resolved again.
func (s *selector) resolve(weights []secret.Value, visited []bool) (int, error) {
	excluded := make([]bool, len(weights))
	for {
		best := -1
		for c, w := range weights {
			if excluded[c] {
				continue
			}
			if best < 0 {
				best = c
				continue
			}
			cmp, err := s.provider.Compare(w, weights[best])
			if err != nil {
				return 0, fmt.Errorf("aco: resolve maximum: %w", err)
			}
			if cmp > 0 {
				best = c
			}
		}
		if best < 0 {
			return 0, ErrDegenerateSelection
		}
		if !visited[best] {
			return best, nil
		}
		excluded[best] = true
	}
}
