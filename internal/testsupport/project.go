package testsupport

import (
	"testing"
	"time"

	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/project"
)

// NewProject scaffolds a project named label under root for the given day
// and returns it.
func NewProject(t testing.TB, root, label string, day time.Time) project.Project {
	t.Helper()
	res, err := project.Create(root, label, day, layout.Default(), manifest.NewStore(logging.NewNop()))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return res.Project
}
