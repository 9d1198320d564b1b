package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/taurusgroup/secure-aco/protocols/aco"
	"golang.org/x/exp/slices"
)

// CheckTour fails the test unless tour is closed and visits each of the n nodes exactly once.
func CheckTour(t testing.TB, tour aco.Tour, n int) {
	t.Helper()
	if len(tour) != n+1 {
		t.Fatalf("tour %v has %d indices, want %d", tour, len(tour), n+1)
	}
	if tour[0] != tour[n] {
		t.Fatalf("tour %v is not closed", tour)
	}
	got := slices.Clone(tour.Open())
	slices.Sort(got)
	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tour %v is not a permutation (-want +got):\n%s", tour, diff)
	}
}
