package test

import (
	"github.com/taurusgroup/secure-aco/protocols/aco"
)

// UnitSquare returns the corners (0,0), (1,0), (1,1), (0,1).
// Its nearest-neighbor cycle from any corner has length 4.
func UnitSquare() []aco.Node {
	return []aco.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}
