package manifest

import "footage/internal/layout"

// State is the coarse project lifecycle marker.
type State string

const (
	StateInit        State = "INIT"
	StateRawCaptured State = "RAW_CAPTURED"
	StateProcessed   State = "PROCESSED"
	StateExported    State = "EXPORTED"
	StateArchived    State = "ARCHIVED"
)

// Valid reports whether s is one of the five lifecycle values.
func (s State) Valid() bool {
	switch s {
	case StateInit, StateRawCaptured, StateProcessed, StateExported, StateArchived:
		return true
	default:
		return false
	}
}

// Normalize maps empty or unknown values to INIT.
func (s State) Normalize() State {
	if s.Valid() {
		return s
	}
	return StateInit
}

// Rank orders states along the pipeline; higher is further along.
func (s State) Rank() int {
	switch s {
	case StateRawCaptured:
		return 1
	case StateProcessed:
		return 2
	case StateExported:
		return 3
	case StateArchived:
		return 4
	default:
		return 0
	}
}

// DeriveState computes the state a reconciliation should persist. ARCHIVED is
// absorbing. Otherwise the furthest non-empty layer wins, which means a
// project whose exports were deleted moves back to an earlier state.
func DeriveState(current State, files Files) State {
	if current == StateArchived {
		return StateArchived
	}
	switch {
	case files.LayerCount(layout.Export) > 0:
		return StateExported
	case files.LayerCount(layout.Processed) > 0:
		return StateProcessed
	case files.LayerCount(layout.Raw) > 0:
		return StateRawCaptured
	default:
		return StateInit
	}
}

// Regressed reports whether moving from prev to next goes backwards.
func Regressed(prev, next State) bool {
	return next.Rank() < prev.Normalize().Rank()
}
