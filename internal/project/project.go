package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"footage/internal/layout"
	"footage/internal/manifest"
	"footage/internal/services"
	"footage/internal/textutil"
)

// Project is a resolved project directory.
type Project struct {
	Name
	Path string
}

// Locate returns the first directory under root whose name ends with
// "_<fragment>", compared case-insensitively. Matches are tried in
// directory listing order and folders whose names do not parse are
// skipped. When only unparsable folders match, the error names the first.
func Locate(root, fragment string) (Project, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return Project{}, services.Wrap(services.ErrValidation, "project", "locate", "project name is required", nil)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Project{}, services.Wrap(services.ErrNotFound, "project", "locate",
				fmt.Sprintf("projects root %s does not exist", root), nil)
		}
		return Project{}, fmt.Errorf("read projects root: %w", err)
	}

	suffix := "_" + strings.ToLower(fragment)
	var firstBad error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			continue
		}
		name, err := ParseDirName(entry.Name())
		if err != nil {
			if firstBad == nil {
				firstBad = err
			}
			continue
		}
		return Project{Name: name, Path: filepath.Join(root, entry.Name())}, nil
	}
	if firstBad != nil {
		return Project{}, firstBad
	}
	return Project{}, services.Wrap(services.ErrNotFound, "project", "locate",
		fmt.Sprintf("no project matching %q under %s", fragment, root), nil)
}

// List returns every project directory under root, sorted by name.
// Directories whose names do not parse are skipped. A missing root yields
// an empty list.
func List(root string) ([]Project, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects root: %w", err)
	}
	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name, err := ParseDirName(entry.Name())
		if err != nil {
			continue
		}
		projects = append(projects, Project{Name: name, Path: filepath.Join(root, entry.Name())})
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].DirName() < projects[j].DirName()
	})
	return projects, nil
}

// CreateResult reports what Create did.
type CreateResult struct {
	Project         Project
	Existed         bool
	ManifestCreated bool
}

// Create scaffolds the layer/type tree for label under root and writes the
// initial manifest. An existing folder is completed rather than rejected,
// and an existing manifest is never overwritten.
func Create(root, label string, now time.Time, l layout.Layout, store *manifest.Store) (CreateResult, error) {
	clean := textutil.SanitizeLabel(label)
	if clean == "" {
		return CreateResult{}, services.Wrap(services.ErrValidation, "project", "create",
			fmt.Sprintf("label %q has no usable characters", label), nil)
	}
	name := NewName(now, clean)
	p := Project{Name: name, Path: filepath.Join(root, name.DirName())}

	result := CreateResult{Project: p}
	if info, err := os.Stat(p.Path); err == nil {
		if !info.IsDir() {
			return CreateResult{}, services.Wrap(services.ErrValidation, "project", "create", p.Path+" exists and is not a directory", nil)
		}
		result.Existed = true
	}

	for _, dir := range Dirs(p.Path, l) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return CreateResult{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(manifest.Path(p.Path)); err == nil {
		return result, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return CreateResult{}, fmt.Errorf("stat manifest: %w", err)
	}
	m := manifest.New(p.DirName(), now.Format(time.RFC3339), l)
	if err := store.Save(p.Path, m); err != nil {
		return CreateResult{}, err
	}
	result.ManifestCreated = true
	return result, nil
}

// Dirs returns every layer/type directory of a project, in layout order.
func Dirs(projectDir string, l layout.Layout) []string {
	var dirs []string
	for _, layer := range l.Layers() {
		for _, t := range l.Types() {
			dirs = append(dirs, filepath.Join(projectDir, string(layer.Name), string(t.Name)))
		}
	}
	return dirs
}
