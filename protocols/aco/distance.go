package aco

import (
	"fmt"
	"math"

	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/secret"
)

// Node is a public coordinate of the instance.
type Node struct {
	X, Y float64
}

// DistanceMatrix holds the plaintext Euclidean distances between all pairs of nodes.
// It is symmetric with a zero diagonal, and is never modified once built.
type DistanceMatrix [][]float64

// NewDistanceMatrix computes the pairwise distances of nodes.
func NewDistanceMatrix(nodes []Node) (DistanceMatrix, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("%w: %d nodes, need at least 2", ErrInvalidConfiguration, len(nodes))
	}
	for i, n := range nodes {
		if !finite(n.X) || !finite(n.Y) {
			return nil, fmt.Errorf("%w: node %d has a non-finite coordinate", ErrInvalidConfiguration, i)
		}
	}
	d := make(DistanceMatrix, len(nodes))
	for i := range d {
		d[i] = make([]float64, len(nodes))
	}
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			dist := math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			d[i][j], d[j][i] = dist, dist
		}
	}
	return d, nil
}

// Dim returns N.
func (d DistanceMatrix) Dim() int { return len(d) }

// Inverse returns the element-wise inverse of d. A zero distance, on the diagonal or between
// coincident nodes, has inverse zero.
func (d DistanceMatrix) Inverse() [][]float64 {
	inv := make([][]float64, len(d))
	for i, row := range d {
		inv[i] = make([]float64, len(row))
		for j, dist := range row {
			if dist != 0 {
				inv[i][j] = 1 / dist
			}
		}
	}
	return inv
}

// Length returns the plaintext length of a closed tour.
func (d DistanceMatrix) Length(tour Tour) float64 {
	var total float64
	for k := 1; k < len(tour); k++ {
		total += d[tour[k-1]][tour[k]]
	}
	return total
}

// EncryptedMatrices are the secret-shared distance and inverse distance matrices of an instance.
type EncryptedMatrices struct {
	Distance [][]secret.Value
	Inverse  [][]secret.Value
}

// Dim returns N.
func (m *EncryptedMatrices) Dim() int { return len(m.Distance) }

// EncryptMatrices encodes d and its inverse with codec and shares every entry through p.
func EncryptMatrices(p secret.Provider, codec fixedpoint.Codec, d DistanceMatrix) (*EncryptedMatrices, error) {
	if codec.Scale() != p.Scale() {
		return nil, fmt.Errorf("aco: encrypt matrices: %w: codec %d, provider %d",
			secret.ErrScaleMismatch, codec.Scale(), p.Scale())
	}
	distance, err := encryptMatrix(p, codec, d)
	if err != nil {
		return nil, fmt.Errorf("aco: encrypt distances: %w", err)
	}
	inverse, err := encryptMatrix(p, codec, d.Inverse())
	if err != nil {
		return nil, fmt.Errorf("aco: encrypt inverse distances: %w", err)
	}
	return &EncryptedMatrices{Distance: distance, Inverse: inverse}, nil
}

func encryptMatrix(p secret.Provider, codec fixedpoint.Codec, m [][]float64) ([][]secret.Value, error) {
	out := make([][]secret.Value, len(m))
	for i, row := range m {
		out[i] = make([]secret.Value, len(row))
		for j, x := range row {
			raw, err := codec.Encode(x)
			if err != nil {
				return nil, fmt.Errorf("entry (%d, %d): %w", i, j, err)
			}
			if out[i][j], err = p.Share(raw); err != nil {
				return nil, fmt.Errorf("entry (%d, %d): %w", i, j, err)
			}
		}
	}
	return out, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
