package reconcile

import (
	"context"
	"path/filepath"

	"footage/internal/manifest"
	"footage/internal/probe"
)

// BuildInventory probes every final file and returns its records: the
// already-canonical files in scan order, then the newly renamed files in
// assignment order.
func BuildInventory(ctx context.Context, prober probe.Prober, projectDir string, canonical, renamed []string) []manifest.FileRecord {
	records := make([]manifest.FileRecord, 0, len(canonical)+len(renamed))
	for _, group := range [][]string{canonical, renamed} {
		for _, path := range group {
			records = append(records, manifest.FileRecord{
				Name:    filepath.Base(path),
				RelPath: relPath(projectDir, path),
				Meta:    prober.Probe(ctx, path).Metadata,
			})
		}
	}
	return records
}

func relPath(projectDir, path string) string {
	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	rel, err := filepath.Rel(projectDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
