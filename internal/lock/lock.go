// Package lock implements the cross-process advisory lock that serialises
// mutations to the package database (spec §4.2).
package lock

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// lockFileName is the file flock() is taken against. It lives inside the
// database directory rather than being the directory itself, since
// directories cannot be flock()'d portably.
const lockFileName = ".lock"

// Lock is a scoped, non-blocking advisory lock over a database directory.
// At most one Lock is live per *Lock value; construction acquires the
// lock, Close releases it.
type Lock struct {
	fl     *flock.Flock
	path   string
	shared bool
}

// Acquire takes an exclusive or shared lock on dir, non-blocking. If the
// lock is already held by another process in an incompatible mode,
// Acquire returns domain.ErrDatabaseBusy without retrying.
func Acquire(dir string, shared bool) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.ErrDatabaseIO{Op: "mkdir", Path: dir, Err: err}
	}

	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)

	var ok bool
	var err error
	if shared {
		ok, err = fl.TryRLock()
	} else {
		ok, err = fl.TryLock()
	}
	if err != nil {
		return nil, domain.ErrDatabaseIO{Op: "lock", Path: path, Err: err}
	}
	if !ok {
		return nil, domain.ErrDatabaseBusy{Path: path}
	}

	return &Lock{fl: fl, path: path, shared: shared}, nil
}

// Shared reports whether this lock was acquired in shared (reader) mode.
func (l *Lock) Shared() bool {
	return l.shared
}

// Close releases the lock and closes the underlying file handle.
func (l *Lock) Close() error {
	return l.fl.Unlock()
}
