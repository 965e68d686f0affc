// Package conflict implements the conflict detector (spec §4.5): the
// set of incoming files that clash with the current installed state or
// with unowned files already present on disk.
package conflict

import (
	"path/filepath"
	"strings"

	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/fsutil"
)

// Detect computes the conflicting file paths for a candidate package
// (name, files) against the catalogue and the filesystem rooted at root,
// in the four ordered phases the spec defines. Directories (paths
// ending in '/') never appear in the result.
func Detect(cat *domain.Catalogue, root, name string, files []string) []string {
	c := make(map[string]struct{})

	// Phase 1: DB conflicts — intersection with every other package's files.
	want := make(map[string]struct{}, len(files))
	for _, f := range files {
		want[f] = struct{}{}
	}
	for _, other := range cat.Names() {
		if other == name {
			continue
		}
		for _, f := range cat.FilesOf(other) {
			if _, ok := want[f]; ok {
				c[f] = struct{}{}
			}
		}
	}

	// Phase 2: filesystem conflicts — paths that already exist on disk.
	for _, f := range files {
		if _, already := c[f]; already {
			continue
		}
		if fsutil.Exists(filepath.Join(root, f)) {
			c[f] = struct{}{}
		}
	}

	// Phase 3: directory exclusion.
	for f := range c {
		if strings.HasSuffix(f, "/") {
			delete(c, f)
		}
	}

	// Phase 4: self-upgrade exclusion — drop paths the same package
	// already owns.
	if cat.Find(name) {
		for _, f := range cat.FilesOf(name) {
			delete(c, f)
		}
	}

	out := make([]string, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	return out
}
