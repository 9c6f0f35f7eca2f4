package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists reports that a rename destination is already occupied.
var ErrTargetExists = errors.New("rename target already exists")

// RenameNoReplace moves src to dst and fails with ErrTargetExists instead of
// clobbering an existing dst.
func RenameNoReplace(src, dst string) error {
	if src == dst {
		return nil
	}
	if _, err := os.Lstat(src); err != nil {
		return err
	}
	err := renameNoReplace(src, dst)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrTargetExists, dst)
	}
	return err
}

// renameChecked is the portable path: check then rename. It is racy against
// concurrent writers, which footage does not support.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fs.ErrExist
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
