// Package remove implements the ownership-aware removal algorithm
// (spec §4.7), shared by the remove front-end and the install engine's
// upgrade path.
package remove

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// DBRmPkg erases name from the catalogue, computes the subset of its
// files not referenced by any other installed package (minus keepList),
// and deletes those paths under root in reverse sorted order so that a
// directory is only removed once everything it contains has already
// been removed. ENOTEMPTY failures and paths that are already missing
// are silently skipped; any other deletion error is reported but does
// not abort the operation.
func DBRmPkg(cat *domain.Catalogue, root, name string, keepList []string) []error {
	files := cat.FilesOf(name)
	owned := make([]string, len(files))
	copy(owned, files)

	cat.Remove(name)

	return removeUnreferenced(cat, root, owned, keepList)
}

// DBRmFiles erases every path in files from every catalogue entry's file
// set, subtracts keepList, and deletes the remainder under root in
// reverse sorted order.
func DBRmFiles(cat *domain.Catalogue, root string, files []string, keepList []string) []error {
	toDelete := make([]string, 0, len(files))
	keep := toSet(keepList)
	for _, f := range files {
		if _, skip := keep[f]; skip {
			continue
		}
		toDelete = append(toDelete, f)
	}

	removeFromEveryEntry(cat, files)

	return deleteReverseSorted(root, toDelete)
}

// removeUnreferenced subtracts, from owned, every path any remaining
// package still references, then deletes what's left (minus keepList).
func removeUnreferenced(cat *domain.Catalogue, root string, owned []string, keepList []string) []error {
	keep := toSet(keepList)
	referenced := make(map[string]struct{})
	for _, name := range cat.Names() {
		for _, f := range cat.FilesOf(name) {
			referenced[f] = struct{}{}
		}
	}

	var toDelete []string
	for _, f := range owned {
		if _, stillOwned := referenced[f]; stillOwned {
			continue
		}
		if _, skip := keep[f]; skip {
			continue
		}
		toDelete = append(toDelete, f)
	}

	return deleteReverseSorted(root, toDelete)
}

func removeFromEveryEntry(cat *domain.Catalogue, files []string) {
	drop := toSet(files)
	for _, name := range cat.Names() {
		entry, _ := cat.Get(name)
		filtered := entry.Files[:0:0]
		for _, f := range entry.Files {
			if _, skip := drop[f]; !skip {
				filtered = append(filtered, f)
			}
		}
		entry.Files = filtered
		cat.Add(name, entry)
	}
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// deleteReverseSorted iterates paths in reverse byte-lexicographic order
// (files before their parent directories) and attempts removal.
func deleteReverseSorted(root string, paths []string) []error {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var errs []error
	for i := len(sorted) - 1; i >= 0; i-- {
		target := filepath.Join(root, sorted[i])
		if err := os.Remove(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			if isENOTEMPTY(err) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errs
}

func isENOTEMPTY(err error) bool {
	return errors.Is(err, syscall.ENOTEMPTY)
}
