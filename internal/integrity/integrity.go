// Package integrity implements the installed-state auditor (spec §4.9):
// a read-only sweep for broken symlinks and files that have disappeared
// out from under the database. It never mutates the catalogue or the
// filesystem.
package integrity

import (
	"os"
	"path/filepath"

	"github.com/opkgtool/pkgctl/internal/catalogue"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/fsutil"
)

// FindingKind distinguishes the two audit categories.
type FindingKind int

const (
	// BrokenSymlink reports a symlink whose immediate target does not exist.
	BrokenSymlink FindingKind = iota
	// CrossPackageReference reports a symlink resolving to a path owned by
	// neither the current package nor, at the immediate hop, itself.
	CrossPackageReference
	// Disappeared reports a file the catalogue lists that is now absent.
	Disappeared
)

// Finding is one audit result.
type Finding struct {
	Kind    FindingKind
	Package string
	Path    string
	// ImmediateOwners and RealOwners are populated for CrossPackageReference
	// findings at higher verbosity; ClaimedBy for Disappeared findings.
	ImmediateOwners []string
	RealOwners      []string
	ClaimedBy       []string
}

// Options controls the audit's verbosity: at higher levels, findings
// carry ownership attribution in addition to the bare path.
type Options struct {
	Verbose bool
}

// Check audits every name in names (or every installed package if names
// is empty) against store's catalogue and the filesystem rooted at
// store.Root().
func Check(store *catalogue.Store, names []string, opts Options) []Finding {
	cat := store.Catalogue()
	if len(names) == 0 {
		names = cat.Names()
	}

	var findings []Finding
	for _, name := range names {
		entry, ok := cat.Get(name)
		if !ok {
			continue
		}
		findings = append(findings, symlinkAudit(cat, store.Root(), name, entry, opts)...)
		findings = append(findings, disappearanceAudit(cat, store.Root(), name, entry, opts)...)
	}
	return findings
}

func symlinkAudit(cat *domain.Catalogue, root, name string, entry domain.PackageEntry, opts Options) []Finding {
	var findings []Finding
	for _, rel := range entry.Files {
		diskPath := filepath.Join(root, rel)
		info, err := os.Lstat(diskPath)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}

		target, err := os.Readlink(diskPath)
		if err != nil {
			continue
		}

		immediate := resolveImmediate(root, diskPath, target)
		if !fsutil.Exists(immediate) {
			findings = append(findings, Finding{Kind: BrokenSymlink, Package: name, Path: rel})
			continue
		}

		real, err := filepath.EvalSymlinks(immediate)
		if err != nil {
			real = immediate
		}

		immediateRel := relOrSelf(root, immediate)
		realRel := relOrSelf(root, real)

		immediateOwners := catalogue.OwnersOfLiteral(cat, immediateRel)
		realOwners := catalogue.OwnersOfLiteral(cat, realRel)

		if !contains(immediateOwners, name) && !contains(realOwners, name) {
			f := Finding{Kind: CrossPackageReference, Package: name, Path: rel}
			if opts.Verbose {
				f.ImmediateOwners = immediateOwners
				f.RealOwners = realOwners
			}
			findings = append(findings, f)
		}
	}
	return findings
}

func disappearanceAudit(cat *domain.Catalogue, root, name string, entry domain.PackageEntry, opts Options) []Finding {
	var findings []Finding
	for _, rel := range entry.Files {
		diskPath := filepath.Join(root, rel)
		if fsutil.Exists(diskPath) {
			continue
		}
		f := Finding{Kind: Disappeared, Package: name, Path: rel}
		if opts.Verbose {
			f.ClaimedBy = catalogue.OwnersOfLiteral(cat, rel)
		}
		findings = append(findings, f)
	}
	return findings
}

// resolveImmediate joins a relative symlink target to its parent
// directory, or treats an absolute target as root-relative, then
// normalises the result — the "immediate" (one-hop) resolution spec §4.9
// distinguishes from the fully-resolved "real" path.
func resolveImmediate(root, diskPath, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Join(root, fsutil.Normalise(target))
	}
	return filepath.Join(filepath.Dir(diskPath), target)
}

func relOrSelf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func contains(items []string, target string) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}
