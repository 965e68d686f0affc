// Package archive implements the package archive reader: filename
// parsing, format-agnostic container detection, header enumeration, and
// metadata-preserving extraction (spec §4.4).
package archive

import (
	"path"
	"strings"

	"github.com/opkgtool/pkgctl/internal/domain"
)

const pkgTarMarker = ".pkg.tar"

// ParseFilename splits a package filename into its name and version,
// per spec §6: the package name is the basename prefix before the first
// '#'; the version starts after that '#' and ends before the last
// occurrence of ".pkg.tar" in the basename. Either being empty is a
// fatal error.
func ParseFilename(filename string) (name, version string, err error) {
	base := path.Base(filename)

	hashIdx := strings.IndexByte(base, '#')
	if hashIdx < 0 {
		return "", "", domain.ErrBadPackageName{Basename: base}
	}
	name = base[:hashIdx]

	rest := base[hashIdx+1:]
	markerIdx := strings.LastIndex(rest, pkgTarMarker)
	if markerIdx < 0 {
		return "", "", domain.ErrBadPackageName{Basename: base}
	}
	version = rest[:markerIdx]

	if name == "" || version == "" {
		return "", "", domain.ErrBadPackageName{Basename: base}
	}
	return name, version, nil
}
