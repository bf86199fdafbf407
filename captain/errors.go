package captain

import "errors"

// Sentinel errors returned by Plan and its helpers (spec.md §6, "Errors").
var (
	// ErrNoPlan is returned when the generator exhausts its backtracking
	// budget without reaching a static-constraint-satisfying assignment.
	ErrNoPlan = errors.New("captain: no feasible plan found")

	// ErrModelExtractionFailed is returned when the committed variable
	// assignment fails CheckStatic after the generator believed it had
	// converged — an internal consistency failure, not a normal planning
	// dead end.
	ErrModelExtractionFailed = errors.New("captain: model extraction failed static checks")

	// ErrInvalidInput is returned for malformed inputs to Plan (e.g. a
	// board with no pieces for side).
	ErrInvalidInput = errors.New("captain: invalid input")
)
