package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"footage/internal/services"
)

// Lock is an advisory per-project run lock held in the state directory.
type Lock struct {
	lock *flock.Flock
}

// LockPath returns the lock file for a project directory name.
func LockPath(lockDir, dirName string) string {
	return filepath.Join(lockDir, dirName+".lock")
}

// AcquireLock takes the run lock for dirName without blocking. A lock held
// by another process fails with services.ErrLocked.
func AcquireLock(lockDir, dirName string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := LockPath(lockDir, dirName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "project", "lock",
			fmt.Sprintf("%s is being reconciled by another footage process (lock %s)", dirName, path), nil)
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
