package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// ExtractOptions controls the metadata an Extractor preserves while
// materialising archive entries on disk (spec §4.4).
type ExtractOptions struct {
	PreserveOwner      bool
	PreservePermissions bool
	PreserveMtime      bool
	UnlinkBeforeCreate bool

	// PreserveACL and PreserveXattr are the Go-idiomatic stand-ins for
	// the source tool's compile-time ACL/xattr toggles (spec §4.4):
	// runtime options rather than build tags, since Go has no #ifdef
	// equivalent. Both default off; setting them requires a platform
	// that supports the corresponding syscalls, which this
	// implementation does not attempt on every GOOS.
	PreserveACL   bool
	PreserveXattr bool
}

// DefaultExtractOptions returns the flag set the install engine always
// uses: preserve owner, permissions, and mtime, and unlink any existing
// file before creating the replacement.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		PreserveOwner:      true,
		PreservePermissions: true,
		PreserveMtime:      true,
		UnlinkBeforeCreate: true,
	}
}

// Extractor walks an archive's entries and data in order, materialising
// each one to a caller-chosen target path on request.
type Extractor struct {
	path string
	f    *os.File
	tr   *tarReader
	opts ExtractOptions

	hdr    *tar.Header
	paths  map[string]string // archive path -> on-disk path, for hardlink resolution
}

// OpenForExtract opens path for a second pass, this time to materialise
// entry data rather than just enumerate headers.
func OpenForExtract(path string, opts ExtractOptions) (*Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ErrArchiveOpen{Path: path, Err: err}
	}
	tr, err := openTarReader(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Extractor{path: path, f: f, tr: tr, opts: opts, paths: make(map[string]string)}, nil
}

// Close releases the underlying archive file and decompressor.
func (x *Extractor) Close() error {
	trErr := x.tr.Close()
	fErr := x.f.Close()
	if trErr != nil {
		return trErr
	}
	return fErr
}

// Next advances to the next archive entry. ok is false once the archive
// is exhausted. Any unread data from the previous entry is discarded by
// the underlying tar.Reader automatically.
func (x *Extractor) Next() (entry domain.ArchiveEntry, ok bool, err error) {
	hdr, err := x.tr.Next()
	if err == io.EOF {
		return domain.ArchiveEntry{}, false, nil
	}
	if err != nil {
		return domain.ArchiveEntry{}, false, domain.ErrArchiveRead{Path: x.path, Err: err}
	}
	x.hdr = hdr
	return entryFromHeader(hdr), true, nil
}

// ExtractTo materialises the current entry at targetDisk, creating
// parent directories as needed. It records the archive path -> disk
// path mapping so that later hardlink entries in the same archive can
// resolve their target.
func (x *Extractor) ExtractTo(targetDisk string) error {
	hdr := x.hdr
	if err := os.MkdirAll(filepath.Dir(targetDisk), 0755); err != nil {
		return err
	}

	if x.opts.UnlinkBeforeCreate {
		_ = os.Remove(targetDisk)
	}

	var err error
	switch hdr.Typeflag {
	case tar.TypeDir:
		err = os.Mkdir(targetDisk, os.FileMode(hdr.Mode).Perm())
		if err != nil && os.IsExist(err) {
			err = nil
		}
	case tar.TypeSymlink:
		err = os.Symlink(hdr.Linkname, targetDisk)
	case tar.TypeLink:
		if diskTarget, ok := x.paths[hdr.Linkname]; ok {
			err = os.Link(diskTarget, targetDisk)
		} else {
			err = os.Link(filepath.Join(filepath.Dir(targetDisk), filepath.Base(hdr.Linkname)), targetDisk)
		}
	case tar.TypeChar, tar.TypeBlock:
		err = extractDevice(hdr, targetDisk)
	case tar.TypeFifo:
		err = unix.Mkfifo(targetDisk, uint32(os.FileMode(hdr.Mode).Perm()))
	default:
		err = extractRegular(x.tr, hdr, targetDisk)
	}
	if err != nil {
		return err
	}

	x.paths[hdr.Name] = targetDisk

	if err := applyMetadata(hdr, targetDisk, x.opts); err != nil {
		return err
	}
	return nil
}

func extractRegular(r io.Reader, hdr *tar.Header, targetDisk string) error {
	f, err := os.OpenFile(targetDisk, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return nil
}

func extractDevice(hdr *tar.Header, targetDisk string) error {
	mode := uint32(os.FileMode(hdr.Mode).Perm())
	if hdr.Typeflag == tar.TypeChar {
		mode |= unix.S_IFCHR
	} else {
		mode |= unix.S_IFBLK
	}
	dev := unix.Mkdev(uint32(hdr.Devmajor), uint32(hdr.Devminor))
	return unix.Mknod(targetDisk, mode, int(dev))
}

func applyMetadata(hdr *tar.Header, targetDisk string, opts ExtractOptions) error {
	if hdr.Typeflag == tar.TypeSymlink {
		if opts.PreserveOwner {
			_ = os.Lchown(targetDisk, hdr.Uid, hdr.Gid)
		}
		return nil
	}
	if opts.PreservePermissions && hdr.Typeflag != tar.TypeLink {
		if err := os.Chmod(targetDisk, os.FileMode(hdr.Mode).Perm()); err != nil {
			return err
		}
	}
	if opts.PreserveOwner && hdr.Typeflag != tar.TypeLink {
		_ = os.Chown(targetDisk, hdr.Uid, hdr.Gid)
	}
	if opts.PreserveMtime && hdr.Typeflag != tar.TypeLink {
		mtime := hdr.ModTime
		if mtime.IsZero() {
			mtime = time.Now()
		}
		_ = os.Chtimes(targetDisk, mtime, mtime)
	}
	return nil
}
