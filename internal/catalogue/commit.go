package catalogue

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// Commit writes the in-memory catalogue to disk using the three-file
// dance rooted at DBPath: unlink any stale incomplete transaction,
// write the new catalogue into one, fsync it, back up the current db,
// then rename the new file into place. Every step that fails reports a
// domain.ErrDatabaseIO carrying the underlying OS cause; a crash between
// any two steps leaves the database in one of its two valid prior
// states (spec §4.3).
func (s *Store) Commit() error {
	dbPath := s.DBPath()
	incompletePath := filepath.Join(s.DBDir(), incompleteTxn)
	backupPath := filepath.Join(s.DBDir(), backupFile)

	if err := os.Remove(incompletePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ErrDatabaseIO{Op: "unlink", Path: incompletePath, Err: err}
	}

	f, err := os.OpenFile(incompletePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0444)
	if err != nil {
		return domain.ErrDatabaseIO{Op: "create", Path: incompletePath, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, name := range s.catalogue.Names() {
		entry, _ := s.catalogue.Get(name)
		if len(entry.Files) == 0 {
			continue
		}
		if err := writeEntry(w, entry); err != nil {
			f.Close()
			return domain.ErrDatabaseIO{Op: "write", Path: incompletePath, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return domain.ErrDatabaseIO{Op: "write", Path: incompletePath, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return domain.ErrDatabaseIO{Op: "fsync", Path: incompletePath, Err: err}
	}
	if err := f.Close(); err != nil {
		return domain.ErrDatabaseIO{Op: "close", Path: incompletePath, Err: err}
	}

	if err := os.Remove(backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ErrDatabaseIO{Op: "unlink", Path: backupPath, Err: err}
	}
	if err := os.Link(dbPath, backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ErrDatabaseIO{Op: "link", Path: backupPath, Err: err}
	}

	if err := os.Rename(incompletePath, dbPath); err != nil {
		return domain.ErrDatabaseIO{Op: "rename", Path: dbPath, Err: err}
	}
	return nil
}

func writeEntry(w *bufio.Writer, entry domain.PackageEntry) error {
	if _, err := w.WriteString(entry.Name); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.WriteString(entry.Version); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	for _, path := range entry.Files {
		if _, err := w.WriteString(path); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
