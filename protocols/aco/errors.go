package aco

import "errors"

var (
	// ErrInvalidConfiguration is returned before any iteration runs when a Config or an
	// instance cannot be used.
	ErrInvalidConfiguration = errors.New("aco: invalid configuration")
	// ErrDimensionMismatch is returned when the trail and the distance matrices disagree in size.
	ErrDimensionMismatch = errors.New("aco: matrix dimensions disagree")
	// ErrDegenerateSelection is returned when a selection step runs out of unvisited candidates.
	ErrDegenerateSelection = errors.New("aco: no unvisited candidate left to select")
	// ErrAborted is returned by Run on an engine whose previous iteration failed.
	ErrAborted = errors.New("aco: run aborted")
)
