package aco

import (
	"fmt"

	"github.com/taurusgroup/secure-aco/pkg/secret"
	"golang.org/x/exp/slices"
)

// Trail is the secret-shared N×N pheromone matrix.
//
// Values returned by a provider are never modified in place, so a Trail can be shared
// read-only with the ants of an iteration while the owner keeps a reference to the cells.
type Trail struct {
	provider secret.Provider
	cells    [][]secret.Value
}

// NewTrail returns an N×N trail of encrypted zeros.
func NewTrail(p secret.Provider, n int) (*Trail, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: trail dimension %d", ErrInvalidConfiguration, n)
	}
	cells := make([][]secret.Value, n)
	for i := range cells {
		cells[i] = make([]secret.Value, n)
		for j := range cells[i] {
			zero, err := secret.Zero(p)
			if err != nil {
				return nil, fmt.Errorf("aco: trail: %w", err)
			}
			cells[i][j] = zero
		}
	}
	return &Trail{provider: p, cells: cells}, nil
}

// Dim returns N.
func (t *Trail) Dim() int { return len(t.cells) }

// At returns the pheromone level of edge (i, j).
func (t *Trail) At(i, j int) secret.Value { return t.cells[i][j] }

// Snapshot returns a read-only view of the current state, unaffected by later updates.
func (t *Trail) Snapshot() *Trail {
	cells := make([][]secret.Value, len(t.cells))
	for i, row := range t.cells {
		cells[i] = slices.Clone(row)
	}
	return &Trail{provider: t.provider, cells: cells}
}

// Deposit adds amount to edge (i, j).
func (t *Trail) Deposit(i, j int, amount secret.Value) error {
	if !t.contains(i, j) {
		return fmt.Errorf("%w: edge (%d, %d) outside a %d×%d trail", ErrDimensionMismatch, i, j, t.Dim(), t.Dim())
	}
	v, err := t.provider.Add(t.cells[i][j], amount)
	if err != nil {
		return fmt.Errorf("aco: deposit on (%d, %d): %w", i, j, err)
	}
	t.cells[i][j] = v
	return nil
}

// Evaporate divides every cell by divisor.
func (t *Trail) Evaporate(divisor secret.Value) error {
	for i, row := range t.cells {
		for j := range row {
			v, err := t.provider.DivideApprox(row[j], divisor)
			if err != nil {
				return fmt.Errorf("aco: evaporate (%d, %d): %w", i, j, err)
			}
			row[j] = v
		}
	}
	return nil
}

// Merge applies the deposits recorded in deltas, in order.
func (t *Trail) Merge(deltas ...*Delta) error {
	for _, d := range deltas {
		if d == nil {
			continue
		}
		if d.n != t.Dim() {
			return fmt.Errorf("%w: delta %d, trail %d", ErrDimensionMismatch, d.n, t.Dim())
		}
		for _, e := range d.order {
			if err := t.Deposit(e.from, e.to, d.cells[e]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Trail) contains(i, j int) bool {
	return i >= 0 && j >= 0 && i < t.Dim() && j < t.Dim()
}

type edge struct {
	from, to int
}

// Delta accumulates the deposits of a single ant until they are merged into a Trail.
// Only touched edges are stored.
type Delta struct {
	n     int
	cells map[edge]secret.Value
	order []edge
}

// NewDelta returns an empty delta for an N×N trail.
func NewDelta(n int) *Delta {
	return &Delta{n: n, cells: make(map[edge]secret.Value)}
}

// Deposit records amount on edge (i, j).
func (d *Delta) Deposit(p secret.Provider, i, j int, amount secret.Value) error {
	if i < 0 || j < 0 || i >= d.n || j >= d.n {
		return fmt.Errorf("%w: edge (%d, %d) outside a %d×%d delta", ErrDimensionMismatch, i, j, d.n, d.n)
	}
	e := edge{from: i, to: j}
	prev, ok := d.cells[e]
	if !ok {
		d.cells[e] = amount
		d.order = append(d.order, e)
		return nil
	}
	v, err := p.Add(prev, amount)
	if err != nil {
		return fmt.Errorf("aco: delta (%d, %d): %w", i, j, err)
	}
	d.cells[e] = v
	return nil
}

// Len returns the number of distinct edges recorded.
func (d *Delta) Len() int { return len(d.order) }
