package reconcile

import (
	"footage/internal/manifest"
)

// Result reports one reconciliation run.
type Result struct {
	Project           string          `json:"project"`
	RunID             string          `json:"run_id"`
	PreviousState     manifest.State  `json:"previous_state"`
	State             manifest.State  `json:"state"`
	Regressed         bool            `json:"regressed"`
	ManifestRecovered bool            `json:"manifest_recovered"`
	Renames           []Rename        `json:"renames"`
	Failures          []RenameFailure `json:"failures"`
	Skipped           []string        `json:"skipped,omitempty"`
	Files             manifest.Files  `json:"files"`
}

// FileCount returns the number of files in the rebuilt inventory.
func (r Result) FileCount() int {
	return r.Files.Count()
}

// Changed reports whether the run renamed anything or moved the state.
func (r Result) Changed() bool {
	return len(r.Renames) > 0 || r.PreviousState != r.State
}
