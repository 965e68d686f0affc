package archive

import (
	"archive/tar"
	"io"
	"os"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// OpenPkg opens path, parses its filename into a (name, version) pair,
// and walks its archive headers once, skipping file data. It returns the
// parsed name and a PackageInfo carrying every entry in enumeration
// order.
//
// An archive with zero headers and no underlying read error is reported
// as ErrEmptyPackage; a read error partway through is ErrArchiveRead.
func OpenPkg(path string) (string, domain.PackageInfo, error) {
	name, version, err := ParseFilename(path)
	if err != nil {
		return "", domain.PackageInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", domain.PackageInfo{}, domain.ErrArchiveOpen{Path: path, Err: err}
	}
	defer f.Close()

	tr, err := openTarReader(path, f)
	if err != nil {
		return "", domain.PackageInfo{}, err
	}
	defer tr.Close()

	info := domain.PackageInfo{Name: name, Version: version}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.PackageInfo{}, domain.ErrArchiveRead{Path: path, Err: err}
		}
		info.Entries = append(info.Entries, entryFromHeader(hdr))
	}

	if len(info.Entries) == 0 {
		return "", domain.PackageInfo{}, domain.ErrEmptyPackage{Path: path}
	}

	return name, info, nil
}

func entryFromHeader(hdr *tar.Header) domain.ArchiveEntry {
	e := domain.ArchiveEntry{
		Path:       hdr.Name,
		Mode:       uint32(hdr.Mode),
		UID:        hdr.Uid,
		GID:        hdr.Gid,
		Size:       hdr.Size,
		LinkTarget: hdr.Linkname,
		RdevMajor:  uint32(hdr.Devmajor),
		RdevMinor:  uint32(hdr.Devminor),
	}
	switch hdr.Typeflag {
	case tar.TypeDir:
		e.IsDir = true
	case tar.TypeSymlink:
		e.IsSymlink = true
	case tar.TypeLink:
		e.IsHardlink = true
		e.HardlinkName = hdr.Linkname
	case tar.TypeChar:
		e.IsDevice = true
		e.IsCharDevice = true
	case tar.TypeBlock:
		e.IsDevice = true
	}
	return e
}
