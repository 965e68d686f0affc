// Package pkgctl is the stable, embeddable facade over the
// package-state engine: a thin re-export of internal/engine plus the
// handful of supporting types a caller needs to drive it (install
// options, rule lists, integrity options) without reaching into
// internal packages.
package pkgctl

import (
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/engine"
	"github.com/opkgtool/pkgctl/internal/footprint"
	"github.com/opkgtool/pkgctl/internal/install"
	"github.com/opkgtool/pkgctl/internal/integrity"
	"github.com/opkgtool/pkgctl/internal/rules"
)

// Engine is the composition-root handle: lock, catalogue store, and
// logger bound together for one root directory.
type Engine = engine.Engine

// Open acquires the database lock (shared for read-only use, exclusive
// for mutation) and loads the catalogue rooted at root.
func Open(root string, shared bool, logger Logger) (*Engine, error) {
	return engine.Open(root, shared, logger)
}

// Logger is the diagnostic sink every mutating operation writes to.
type Logger = domain.Logger

// InstallOptions controls the install engine's force/upgrade behavior.
type InstallOptions = install.Options

// InstallResult reports what Engine.Install actually did.
type InstallResult = install.Result

// Rules is a compiled install-rule list, as produced by internal/rules.Parse.
type Rules = rules.List

// ParseRule list in bytes form is intentionally not exposed here:
// callers should use internal/rules.Parse via an os.File the way the
// CLI front-end does. This facade re-exports the compiled type only so
// embedders can pass a pre-parsed Rules value to Engine.Install.

// Finding is one integrity-audit result.
type Finding = integrity.Finding

// FindingKind distinguishes the integrity audit categories.
type FindingKind = integrity.FindingKind

// IntegrityOptions controls integrity-audit verbosity.
type IntegrityOptions = integrity.Options

// FootprintLine is one rendered line of an archive's footprint manifest.
type FootprintLine = footprint.Line

// Catalogue is the in-memory package database view.
type Catalogue = domain.Catalogue

// PackageEntry is one package's installed metadata.
type PackageEntry = domain.PackageEntry
