package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"footage/internal/layout"
)

// SkippedPath is a subtree the scanner could not read.
type SkippedPath struct {
	Path string
	Err  error
}

// Scan lists the media files found in one layer/type directory.
type Scan struct {
	Dir     string
	Paths   []string
	Skipped []SkippedPath
}

// LayerDir returns <projectDir>/<layer>/<type>.
func LayerDir(projectDir string, layer layout.Layer, mediaType layout.MediaType) string {
	return filepath.Join(projectDir, string(layer), string(mediaType))
}

// ScanLayer walks <projectDir>/<layer>/<type> recursively and returns the
// absolute paths of files whose extension belongs to mediaType, sorted
// lexically. A missing directory yields an empty scan.
func ScanLayer(l layout.Layout, projectDir string, layer layout.Layer, mediaType layout.MediaType) (Scan, error) {
	root, err := filepath.Abs(LayerDir(projectDir, layer, mediaType))
	if err != nil {
		return Scan{}, fmt.Errorf("resolve layer dir: %w", err)
	}
	scan := Scan{Dir: root}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return scan, nil
		}
		return Scan{}, fmt.Errorf("stat layer dir: %w", err)
	}
	if !info.IsDir() {
		return scan, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			scan.Skipped = append(scan.Skipped, SkippedPath{Path: path, Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !l.Allows(mediaType, filepath.Ext(d.Name())) {
			return nil
		}
		if !d.Type().IsRegular() {
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		}
		scan.Paths = append(scan.Paths, path)
		return nil
	})
	if err != nil {
		return Scan{}, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(scan.Paths)
	return scan, nil
}
