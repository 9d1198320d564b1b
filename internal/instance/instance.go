// Package instance generates synthetic TSP node sets.
package instance

import (
	"math"
	mrand "math/rand"

	"github.com/taurusgroup/secure-aco/protocols/aco"
)

// Circle returns n points evenly spaced on a circle of the given radius, in order.
// The optimal tour is the polygon, of length 2n⋅r⋅sin(π/n).
func Circle(n int, radius float64) []aco.Node {
	nodes := make([]aco.Node, n)
	for i := range nodes {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes[i] = aco.Node{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return nodes
}

// CircleLength is the perimeter of the polygon returned by Circle.
func CircleLength(n int, radius float64) float64 {
	return 2 * float64(n) * radius * math.Sin(math.Pi/float64(n))
}

// Random returns n points drawn uniformly from [0, size)², reproducibly from seed.
func Random(n int, size float64, seed int64) []aco.Node {
	r := mrand.New(mrand.NewSource(seed))
	nodes := make([]aco.Node, n)
	for i := range nodes {
		nodes[i] = aco.Node{X: r.Float64() * size, Y: r.Float64() * size}
	}
	return nodes
}
