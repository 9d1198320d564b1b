package aco

import "golang.org/x/exp/slices"

// Tour is a closed sequence of node indices: a permutation of 0..N-1 followed by its first index.
type Tour []int

// Open returns the tour without its closing index.
func (t Tour) Open() []int {
	if len(t) == 0 {
		return nil
	}
	return t[:len(t)-1]
}

// closeTour appends the first index to path.
func closeTour(path []int) Tour {
	t := make(Tour, len(path), len(path)+1)
	copy(t, path)
	return append(t, path[0])
}

// Tracker retains the shortest tour seen so far.
//
// Lengths are the revealed fixed-point encodings, so comparisons are exact.
type Tracker struct {
	best    Tour
	length  int64
	found   bool
	history []int64
}

// Offer replaces the best tour if length is strictly smaller, and reports whether it did.
func (t *Tracker) Offer(tour Tour, length int64) bool {
	if t.found && length >= t.length {
		return false
	}
	t.best = slices.Clone(tour)
	t.length = length
	t.found = true
	return true
}

// Best returns the best tour and its length, and false if nothing was offered yet.
func (t *Tracker) Best() (Tour, int64, bool) {
	return t.best, t.length, t.found
}

// Record appends the current best length to the history. It is called once per iteration.
func (t *Tracker) Record() {
	if t.found {
		t.history = append(t.history, t.length)
	}
}

// History returns the best length after each recorded iteration. It is non-increasing.
func (t *Tracker) History() []int64 {
	return slices.Clone(t.history)
}
