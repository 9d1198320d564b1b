package main

import (
	"fmt"
	"math"

	"github.com/taurusgroup/secure-aco/internal/instance"
	"github.com/taurusgroup/secure-aco/protocols/aco"
)

func generate(kind string, n int, size float64, seed int64) ([]aco.Node, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 nodes, got %d", n)
	}
	switch kind {
	case "circle":
		return instance.Circle(n, size), nil
	case "grid":
		return grid(n, size), nil
	case "random":
		return instance.Random(n, size, seed), nil
	default:
		return nil, fmt.Errorf("unknown instance %q", kind)
	}
}

// grid lays n nodes out row by row on the smallest square lattice that holds them.
func grid(n int, size float64) []aco.Node {
	side := int(math.Ceil(math.Sqrt(float64(n))))
	step := size / float64(side)
	nodes := make([]aco.Node, n)
	for i := range nodes {
		nodes[i] = aco.Node{X: float64(i%side) * step, Y: float64(i/side) * step}
	}
	return nodes
}
