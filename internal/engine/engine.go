// Package engine is the composition root binding the lock, the
// catalogue store, and the install/remove/footprint/integrity
// components into a single handle a front-end drives through function
// calls (spec §9 design notes: composition over the source's
// subclassed front-ends, an explicit handle rather than process-wide
// state).
package engine

import (
	"github.com/opkgtool/pkgctl/internal/catalogue"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/footprint"
	"github.com/opkgtool/pkgctl/internal/install"
	"github.com/opkgtool/pkgctl/internal/integrity"
	"github.com/opkgtool/pkgctl/internal/ldconfig"
	"github.com/opkgtool/pkgctl/internal/lock"
	"github.com/opkgtool/pkgctl/internal/remove"
	"github.com/opkgtool/pkgctl/internal/rules"
)

// Engine holds everything one package-manager invocation needs: a held
// database lock, the loaded catalogue store, and a logger. Tests (and,
// in principle, an embedding program) can hold several Engines against
// different roots in the same process, since none of this state is
// global.
type Engine struct {
	lock   *lock.Lock
	store  *catalogue.Store
	logger domain.Logger
}

// Open acquires the database lock (shared for read-only front-ends,
// exclusive for mutators) and loads the catalogue store rooted at root.
// The caller must call Close when done.
func Open(root string, shared bool, logger domain.Logger) (*Engine, error) {
	if logger == nil {
		logger = domain.NopLogger{}
	}

	store, err := catalogue.Open(root)
	if err != nil {
		return nil, err
	}

	l, err := lock.Acquire(store.DBDir(), shared)
	if err != nil {
		return nil, err
	}

	return &Engine{lock: l, store: store, logger: logger}, nil
}

// Close releases the database lock. It does not commit any pending
// in-memory mutation; callers that mutate must call Commit explicitly
// through the relevant operation.
func (e *Engine) Close() error {
	return e.lock.Close()
}

// Root returns the directory the engine is rooted at.
func (e *Engine) Root() string { return e.store.Root() }

// Catalogue returns the in-memory catalogue for read-only inspection
// (query, check front-ends).
func (e *Engine) Catalogue() *domain.Catalogue { return e.store.Catalogue() }

// Install runs the install/upgrade engine (spec §4.6) against archivePath.
func (e *Engine) Install(archivePath string, ruleList rules.List, opts install.Options) (install.Result, error) {
	return install.Run(e.store, archivePath, ruleList, opts, e.logger)
}

// Remove deletes an installed package's unreferenced files and excises
// it from the catalogue, committing the result. Per-file removal
// errors (spec §4.7/§7: "reported but not fatal", "logged and
// absorbed") are logged through the engine's logger and never returned;
// the only error Remove returns is one that leaves the transaction
// itself unperformed — the package not being installed, or the
// catalogue commit failing.
func (e *Engine) Remove(name string) error {
	if !e.store.Catalogue().Find(name) {
		return domain.ErrNotInstalled{Name: name}
	}

	fileErrs := remove.DBRmPkg(e.store.Catalogue(), e.store.Root(), name, nil)
	for _, fe := range fileErrs {
		e.logger.Warn("removal error during remove", "error", fe)
	}

	if err := e.store.Commit(); err != nil {
		return err
	}
	ldconfig.Refresh(e.store.Root(), e.logger)
	return nil
}

// Footprint renders the deterministic manifest of an archive, without
// touching the catalogue.
func (e *Engine) Footprint(archivePath string) ([]footprint.Line, error) {
	return footprint.Report(archivePath)
}

// Check runs the integrity auditor over names (or every installed
// package if names is empty).
func (e *Engine) Check(names []string, opts integrity.Options) []integrity.Finding {
	return integrity.Check(e.store, names, opts)
}

// Owners returns the installed packages owning at least one file
// matching pattern, a POSIX ERE.
func (e *Engine) Owners(pattern string) ([]string, error) {
	return catalogue.OwnersMatching(e.store.Catalogue(), pattern)
}
