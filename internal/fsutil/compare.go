package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const blockSize = 4096

// Exists reports whether a call to lstat(path) succeeds. It does not
// follow a trailing symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsEmptyRegular reports whether path is a regular file of zero length.
func IsEmptyRegular(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() == 0
}

// ContentEqual compares two filesystem paths by their on-disk type:
// regular files are compared byte-for-byte in 4 KiB blocks, symlinks by
// target, character/block devices by device number. Any other pairing,
// or any stat failure, returns false.
func ContentEqual(a, b string) bool {
	ia, err := os.Lstat(a)
	if err != nil {
		return false
	}
	ib, err := os.Lstat(b)
	if err != nil {
		return false
	}

	switch {
	case ia.Mode().IsRegular() && ib.Mode().IsRegular():
		return regularFilesEqual(a, b)
	case ia.Mode()&os.ModeSymlink != 0 && ib.Mode()&os.ModeSymlink != 0:
		ta, err := os.Readlink(a)
		if err != nil {
			return false
		}
		tb, err := os.Readlink(b)
		if err != nil {
			return false
		}
		return ta == tb
	case isDevice(ia.Mode()) && isDevice(ib.Mode()):
		majA, minA, okA := rdev(ia)
		majB, minB, okB := rdev(ib)
		return okA && okB && majA == majB && minA == minB
	default:
		return false
	}
}

func isDevice(mode os.FileMode) bool {
	return mode&(os.ModeDevice|os.ModeCharDevice) != 0
}

// rdev extracts the major/minor device numbers from a FileInfo's
// platform-specific Sys() value.
func rdev(info os.FileInfo) (major, minor uint32, ok bool) {
	st, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return unix.Major(uint64(st.Rdev)), unix.Minor(uint64(st.Rdev)), true
}

func regularFilesEqual(a, b string) bool {
	fa, err := os.Open(a)
	if err != nil {
		return false
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false
	}
	defer fb.Close()

	var bufA, bufB [blockSize]byte
	for {
		na, errA := io.ReadFull(fa, bufA[:])
		nb, errB := io.ReadFull(fb, bufB[:])
		if na != nb {
			return false
		}
		if string(bufA[:na]) != string(bufB[:nb]) {
			return false
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if doneA != doneB {
			return false
		}
		if doneA {
			return true
		}
		if errA != nil || errB != nil {
			return false
		}
	}
}

// PermsEqual compares mode bits, uid, and gid between two paths.
func PermsEqual(a, b string) bool {
	ia, err := os.Lstat(a)
	if err != nil {
		return false
	}
	ib, err := os.Lstat(b)
	if err != nil {
		return false
	}
	if ia.Mode() != ib.Mode() {
		return false
	}
	sa, okA := ia.Sys().(*unix.Stat_t)
	sb, okB := ib.Sys().(*unix.Stat_t)
	if !okA || !okB {
		return true
	}
	return sa.Uid == sb.Uid && sa.Gid == sb.Gid
}

// PruneUp attempts to remove path; if the removal succeeds and path is
// not basedir, it recurses on path's parent. Failures are silently
// absorbed: PruneUp never reports an error and never recurses past a
// failed removal.
func PruneUp(basedir, path string) {
	if err := os.Remove(path); err != nil {
		return
	}
	if path == basedir {
		return
	}
	parent := filepath.Dir(path)
	if parent == path {
		return
	}
	PruneUp(basedir, parent)
}
