package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"footage/internal/fileutil"
	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/project"
	"footage/internal/services"
)

// RecordName is the archive record written at the project root.
const RecordName = "README_ARCHIVE.txt"

// ErrDeclined reports that archiving a project without exports was not confirmed.
var ErrDeclined = fmt.Errorf("%w: archive declined", services.ErrValidation)

// ConfirmFunc is asked whether to archive a project that has no exports.
type ConfirmFunc func() (bool, error)

// Result describes a finished archive.
type Result struct {
	Project        string
	RecordPath     string
	PreviousState  manifest.State
	Files          int
	MissingExports bool
}

// Archiver finalizes projects.
type Archiver struct {
	store  *manifest.Store
	layout layout.Layout
	logger *slog.Logger
}

// New returns an Archiver.
func New(store *manifest.Store, l layout.Layout, logger *slog.Logger) *Archiver {
	return &Archiver{store: store, layout: l, logger: logging.NewComponentLogger(logger, "archive")}
}

// HasExports reports whether any export layer type holds files.
func HasExports(m *manifest.Manifest) bool {
	return m.Files.LayerCount(layout.Export) > 0
}

// Finalize validates, locks, and records p. The manifest must exist and
// parse. When the export layer is empty, confirm decides whether to go on;
// a nil confirm declines.
func (a *Archiver) Finalize(p project.Project, confirm ConfirmFunc) (Result, error) {
	m, err := a.store.LoadExisting(p.Path, a.layout)
	if err != nil {
		return Result{}, err
	}
	result := Result{Project: m.Project, PreviousState: m.State, Files: m.Files.Count()}

	if !HasExports(m) {
		result.MissingExports = true
		ok := false
		if confirm != nil {
			if ok, err = confirm(); err != nil {
				return Result{}, fmt.Errorf("confirm archive: %w", err)
			}
		}
		if !ok {
			return result, ErrDeclined
		}
		logging.WarnWithContext(a.logger, "archiving project without exports", "archive_without_exports",
			logging.String(logging.FieldProject, m.Project),
			logging.String(logging.FieldErrorHint, "export deliverables before archiving if this was unintended"),
			logging.String(logging.FieldImpact, "archive record lists no export files"))
	}

	m.State = manifest.StateArchived
	if err := a.store.Save(p.Path, m); err != nil {
		return Result{}, err
	}

	record := RenderRecord(m, a.layout)
	if err := fileutil.WriteFileAtomic(p.Path, RecordName, []byte(record)); err != nil {
		return Result{}, fmt.Errorf("write archive record: %w", err)
	}
	result.RecordPath = filepath.Join(p.Path, RecordName)

	a.logger.Info("project archived",
		logging.String(logging.FieldEventType, "project_archived"),
		logging.String(logging.FieldProject, m.Project),
		logging.String("previous_state", string(result.PreviousState)),
		logging.Int("files", result.Files))
	return result, nil
}

// Declined reports whether err is an unconfirmed archive.
func Declined(err error) bool {
	return errors.Is(err, ErrDeclined)
}

// RenderRecord renders the archive record for m.
func RenderRecord(m *manifest.Manifest, l layout.Layout) string {
	var b strings.Builder
	created := m.Created
	if strings.TrimSpace(created) == "" {
		created = "N/A"
	}
	b.WriteString("PROJECT ARCHIVE RECORD\n")
	fmt.Fprintf(&b, "Project:  %s\n", m.Project)
	fmt.Fprintf(&b, "Created:  %s\n", created)
	fmt.Fprintf(&b, "Status:   %s\n", manifest.StateArchived)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")

	for _, layer := range l.Layers() {
		fmt.Fprintf(&b, "[%s]\n", strings.ToUpper(string(layer.Name)))
		empty := true
		for _, t := range l.Types() {
			records := m.Files.Records(layer.Name, t.Name)
			if len(records) == 0 {
				continue
			}
			empty = false
			fmt.Fprintf(&b, "  %s (%d files):\n", strings.ToUpper(string(t.Name)), len(records))
			for _, r := range records {
				res := r.Meta.Resolution
				if res == "" {
					res = manifest.ResolutionUnknown
				}
				fmt.Fprintf(&b, "    - %s (%.1fs, %s)\n", r.Name, r.Meta.Duration, res)
			}
		}
		if empty {
			b.WriteString("  (Empty)\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
