package domain

import "fmt"

// ErrDatabaseBusy indicates another process already holds the database
// lock in the mode this process requested.
type ErrDatabaseBusy struct {
	Path string
}

func (e ErrDatabaseBusy) Error() string {
	return fmt.Sprintf("database at %q is locked by another process", e.Path)
}

// ErrDatabaseIO wraps a failure on one of the database file operations
// (open, read, write, rename, fsync, link, unlink).
type ErrDatabaseIO struct {
	Op   string
	Path string
	Err  error
}

func (e ErrDatabaseIO) Error() string {
	return fmt.Sprintf("database %s on %q failed: %v", e.Op, e.Path, e.Err)
}

func (e ErrDatabaseIO) Unwrap() error { return e.Err }

// ErrBadPackageName indicates an archive filename could not be parsed
// into a (name, version) pair.
type ErrBadPackageName struct {
	Basename string
}

func (e ErrBadPackageName) Error() string {
	return fmt.Sprintf("cannot parse package name and version from %q", e.Basename)
}

// ErrArchiveOpen indicates the archive container or its compression
// wrapper could not be opened.
type ErrArchiveOpen struct {
	Path string
	Err  error
}

func (e ErrArchiveOpen) Error() string {
	return fmt.Sprintf("cannot open archive %q: %v", e.Path, e.Err)
}

func (e ErrArchiveOpen) Unwrap() error { return e.Err }

// ErrArchiveRead indicates an error while walking archive headers.
type ErrArchiveRead struct {
	Path string
	Err  error
}

func (e ErrArchiveRead) Error() string {
	return fmt.Sprintf("error reading archive %q: %v", e.Path, e.Err)
}

func (e ErrArchiveRead) Unwrap() error { return e.Err }

// ErrEmptyPackage indicates an archive had zero headers and no read error.
type ErrEmptyPackage struct {
	Path string
}

func (e ErrEmptyPackage) Error() string {
	return fmt.Sprintf("archive %q contains no entries", e.Path)
}

// ErrAlreadyInstalled indicates a fresh install was requested for a
// package that is already present in the catalogue.
type ErrAlreadyInstalled struct {
	Name string
}

func (e ErrAlreadyInstalled) Error() string {
	return fmt.Sprintf("package %q is already installed", e.Name)
}

// ErrNotInstalled indicates an upgrade was requested for a package that
// is not present in the catalogue.
type ErrNotInstalled struct {
	Name string
}

func (e ErrNotInstalled) Error() string {
	return fmt.Sprintf("package %q is not installed", e.Name)
}

// ErrFileConflicts carries the set of conflicting paths detected by the
// conflict detector when the install was not forced.
type ErrFileConflicts struct {
	Paths []string
}

func (e ErrFileConflicts) Error() string {
	return fmt.Sprintf("%d file(s) conflict with the installed state", len(e.Paths))
}

// ErrExtractError is surfaced only for fresh installs; upgrades log and
// continue past per-entry extraction failures.
type ErrExtractError struct {
	Path string
	Err  error
}

func (e ErrExtractError) Error() string {
	return fmt.Sprintf("failed to extract %q: %v", e.Path, e.Err)
}

func (e ErrExtractError) Unwrap() error { return e.Err }

// ErrConfigParse indicates a malformed line in the install-rule
// configuration file.
type ErrConfigParse struct {
	Filename string
	Line     int
	Reason   string
}

func (e ErrConfigParse) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Reason)
}

// ErrPermissionDenied indicates a mutating verb was invoked without the
// required effective uid.
type ErrPermissionDenied struct {
	Operation string
}

func (e ErrPermissionDenied) Error() string {
	return fmt.Sprintf("permission denied: %s requires root", e.Operation)
}
