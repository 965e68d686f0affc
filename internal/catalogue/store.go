// Package catalogue implements the flat-file package database: loading
// it into memory and committing it back atomically (spec §4.3).
package catalogue

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/fsutil"
)

const (
	dbDir         = "var/lib/pkg"
	dbFile        = "db"
	backupFile    = "db.backup"
	incompleteTxn = "db.incomplete_transaction"
	rejectedDir   = "rejected"
)

// Store owns the in-memory catalogue and its on-disk representation
// rooted at a target directory.
type Store struct {
	root      string
	catalogue *domain.Catalogue
}

// Root returns the normalised root directory this store was opened
// against.
func (s *Store) Root() string { return s.root }

// Catalogue returns the in-memory catalogue. Mutators on it are not
// persisted until Commit is called.
func (s *Store) Catalogue() *domain.Catalogue { return s.catalogue }

// DBDir returns "<root>/var/lib/pkg".
func (s *Store) DBDir() string { return filepath.Join(s.root, dbDir) }

// DBPath returns "<root>/var/lib/pkg/db".
func (s *Store) DBPath() string { return filepath.Join(s.DBDir(), dbFile) }

// RejectedDir returns "<root>/var/lib/pkg/rejected".
func (s *Store) RejectedDir() string { return filepath.Join(s.DBDir(), rejectedDir) }

// Open normalises root (the empty string means "/"), reads the
// catalogue file if present, and returns a populated Store. A missing
// database file is not an error: Open returns an empty catalogue.
func Open(root string) (*Store, error) {
	if root == "" {
		root = "/"
	}
	root = fsutil.Normalise(root)
	root = filepath.Clean(root)

	s := &Store{root: root, catalogue: domain.NewCatalogue()}

	if err := os.MkdirAll(s.DBDir(), 0755); err != nil {
		return nil, domain.ErrDatabaseIO{Op: "mkdir", Path: s.DBDir(), Err: err}
	}

	f, err := os.Open(s.DBPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, domain.ErrDatabaseIO{Op: "open", Path: s.DBPath(), Err: err}
	}
	defer f.Close()

	if err := parseInto(f, s.catalogue); err != nil {
		return nil, domain.ErrDatabaseIO{Op: "read", Path: s.DBPath(), Err: err}
	}
	return s, nil
}

// parseInto reads the record format described in spec §4.3/§6: name
// line, version line, zero or more path lines, blank terminator. A
// malformed trailing record missing its blank terminator is accepted as
// long as it is otherwise consistent (name + version present).
func parseInto(r io.Reader, cat *domain.Catalogue) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if !scanner.Scan() {
			break
		}
		name := scanner.Text()
		if name == "" {
			continue
		}

		if !scanner.Scan() {
			// name with no version: drop the dangling record.
			break
		}
		version := scanner.Text()

		var files []string
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				break
			}
			files = append(files, line)
		}

		if len(files) == 0 {
			// Empty packages are never written and are dropped on load.
			continue
		}
		cat.Add(name, domain.PackageEntry{Name: name, Version: version, Files: files})
	}
	return scanner.Err()
}
