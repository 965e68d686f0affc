// Package install implements the install/upgrade engine (spec §4.6): it
// applies install rules, resolves conflicts, materialises archive
// entries, and diverts kept configuration files to the rejected area.
package install

import (
	"path/filepath"

	"github.com/opkgtool/pkgctl/internal/archive"
	"github.com/opkgtool/pkgctl/internal/catalogue"
	"github.com/opkgtool/pkgctl/internal/conflict"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/fsutil"
	"github.com/opkgtool/pkgctl/internal/ldconfig"
	"github.com/opkgtool/pkgctl/internal/remove"
	"github.com/opkgtool/pkgctl/internal/rules"
)

// Options controls the two independent flags the install engine accepts
// beyond the archive path and rule list.
type Options struct {
	Force   bool
	Upgrade bool
}

// Result reports what the engine actually did, for front-end logging.
type Result struct {
	Name    string
	Version string
}

// Run executes the full install/upgrade procedure against store, which
// must already be open under a held exclusive lock. It mutates and
// commits store's catalogue and the filesystem under store.Root(). Per
// spec §4.6 step 9, logger may be nil.
func Run(store *catalogue.Store, archivePath string, ruleList rules.List, opts Options, logger domain.Logger) (Result, error) {
	if logger == nil {
		logger = domain.NopLogger{}
	}

	name, info, err := archive.OpenPkg(archivePath)
	if err != nil {
		return Result{}, err
	}

	cat := store.Catalogue()
	installed := cat.Find(name)
	if installed && !opts.Upgrade {
		return Result{}, domain.ErrAlreadyInstalled{Name: name}
	}
	if !installed && opts.Upgrade {
		return Result{}, domain.ErrNotInstalled{Name: name}
	}

	allFiles := info.Files()
	installSet, _ := ruleList.Partition(domain.EventInstall, allFiles)
	inInstallSet := toSet(installSet)

	conflicts := conflict.Detect(cat, store.Root(), name, installSet)

	var conflictKeep []string
	if len(conflicts) > 0 {
		if !opts.Force {
			return Result{}, domain.ErrFileConflicts{Paths: conflicts}
		}
		if opts.Upgrade {
			conflictKeep = ruleList.KeepList(conflicts)
		}
		logRemovalErrors(logger, remove.DBRmFiles(cat, store.Root(), conflicts, conflictKeep))
	}

	var upgradeKeep []string
	if opts.Upgrade {
		upgradeKeep = ruleList.KeepList(installSet)
		logRemovalErrors(logger, remove.DBRmPkg(cat, store.Root(), name, upgradeKeep))
	}
	keepSet := toSet(upgradeKeep)

	cat.Add(name, domain.PackageEntry{Name: name, Version: info.Version, Files: installSet})
	if err := store.Commit(); err != nil {
		return Result{}, err
	}

	if err := extractEntries(store, archivePath, info, inInstallSet, keepSet, opts, logger); err != nil {
		return Result{}, err
	}

	ldconfig.Refresh(store.Root(), logger)

	return Result{Name: name, Version: info.Version}, nil
}

func extractEntries(store *catalogue.Store, archivePath string, info domain.PackageInfo, inInstallSet, keepSet map[string]struct{}, opts Options, logger domain.Logger) error {
	x, err := archive.OpenForExtract(archivePath, archive.DefaultExtractOptions())
	if err != nil {
		return err
	}
	defer x.Close()

	for {
		entry, ok, err := x.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if _, install := inInstallSet[entry.Path]; !install {
			continue
		}

		originalDisk := filepath.Join(store.Root(), entry.Path)
		_, keep := keepSet[entry.Path]
		rejectedDisk := filepath.Join(store.RejectedDir(), entry.Path)

		targetDisk := originalDisk
		diverted := false
		if keep && fsutil.Exists(originalDisk) {
			targetDisk = rejectedDisk
			diverted = true
		}

		if err := x.ExtractTo(targetDisk); err != nil {
			logger.Error("extract failed", "path", entry.Path, "error", err)
			if !opts.Upgrade {
				store.Catalogue().Remove(info.Name)
				_ = store.Commit()
				return domain.ErrExtractError{Path: entry.Path, Err: err}
			}
			continue
		}

		if diverted {
			reconcileRejection(store.RejectedDir(), originalDisk, targetDisk, entry, logger)
		}
	}
	return nil
}

// reconcileRejection implements spec §4.6 step 8's last clause: after a
// rejected entry lands on disk, compare it to the pre-existing original
// and drop the rejection (pruning upward) if the divergence turns out to
// be cosmetic.
func reconcileRejection(rejectedRoot, originalDisk, rejectedDisk string, entry domain.ArchiveEntry, logger domain.Logger) {
	if entry.IsDir {
		if fsutil.PermsEqual(originalDisk, rejectedDisk) {
			fsutil.PruneUp(rejectedRoot, rejectedDisk)
		}
		return
	}

	if fsutil.PermsEqual(originalDisk, rejectedDisk) &&
		(fsutil.IsEmptyRegular(rejectedDisk) || fsutil.ContentEqual(rejectedDisk, originalDisk)) {
		fsutil.PruneUp(rejectedRoot, rejectedDisk)
		return
	}

	logger.Info("kept rejected configuration file", "path", rejectedDisk)
}

func logRemovalErrors(logger domain.Logger, errs []error) {
	for _, err := range errs {
		logger.Warn("removal error during install", "error", err)
	}
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
