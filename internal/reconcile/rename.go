package reconcile

import (
	"path/filepath"

	"footage/internal/fileutil"
	"footage/internal/naming"
	"footage/internal/services"
)

// RenameFunc moves src to dst and must refuse to replace an existing dst.
type RenameFunc func(src, dst string) error

// Rename records one applied rename.
type Rename struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Index int    `json:"index"`
}

// RenameFailure records a file that kept its original name.
type RenameFailure struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Index  int    `json:"index"`
	Error  string `json:"error"`
	Err    error  `json:"-"`
}

// RenameOutcome summarizes a RenameSequential call.
type RenameOutcome struct {
	Renamed  []Rename
	Failures []RenameFailure
	// Next is the first index not consumed.
	Next int
}

// RenameSequential renames sorted files in order to prefix+NNN+ext in their
// own directory, starting at start. An index is consumed only by a
// successful rename, so failures never leave gaps. A nil rename uses
// fileutil.RenameNoReplace.
func RenameSequential(sorted []string, prefix string, start int, rename RenameFunc) RenameOutcome {
	if rename == nil {
		rename = fileutil.RenameNoReplace
	}
	outcome := RenameOutcome{Next: start}
	for _, src := range sorted {
		dst := filepath.Join(filepath.Dir(src), naming.Format(prefix, outcome.Next, filepath.Ext(src)))
		if err := rename(src, dst); err != nil {
			wrapped := services.Wrap(services.ErrRenameFailure, "reconcile", "rename", filepath.Base(src), err)
			outcome.Failures = append(outcome.Failures, RenameFailure{
				Path:   src,
				Target: dst,
				Index:  outcome.Next,
				Error:  wrapped.Error(),
				Err:    wrapped,
			})
			continue
		}
		outcome.Renamed = append(outcome.Renamed, Rename{From: src, To: dst, Index: outcome.Next})
		outcome.Next++
	}
	return outcome
}
