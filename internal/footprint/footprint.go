// Package footprint produces the deterministic textual manifest of an
// archive's contents (spec §4.8): a sorted, diffable listing suitable
// for comparing two builds of the same package.
package footprint

import (
	"fmt"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"

	"github.com/opkgtool/pkgctl/internal/archive"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/fsutil"
)

// Line is one reported entry, already formatted for output.
type Line struct {
	Path string
	Text string
}

// Report opens path's archive (pass 1, via archive.OpenPkg, which
// already walks every header once) and renders a sorted-by-path listing
// (pass 2). Hardlink entries report the mode of their resolved target,
// located by binary search over the path-sorted entry list, per spec
// §4.8 and the stability note in §9 (the reporter depends on archive
// enumeration order being stable, which any tar reader satisfies).
func Report(path string) ([]Line, error) {
	_, info, err := archive.OpenPkg(path)
	if err != nil {
		return nil, err
	}

	sorted := make([]domain.ArchiveEntry, len(info.Entries))
	copy(sorted, info.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	lines := make([]Line, 0, len(sorted))
	for _, e := range sorted {
		lines = append(lines, Line{Path: e.Path, Text: renderLine(sorted, e)})
	}
	return lines, nil
}

func renderLine(sorted []domain.ArchiveEntry, e domain.ArchiveEntry) string {
	perms := permsFor(sorted, e)
	owner := ownerString(e.UID, lookupUserName)
	group := ownerString(e.GID, lookupGroupName)
	return fmt.Sprintf("%s\t%s/%s\t%s%s", perms, owner, group, e.Path, suffixFor(e))
}

func permsFor(sorted []domain.ArchiveEntry, e domain.ArchiveEntry) string {
	if e.IsSymlink {
		return fsutil.SymlinkModeString
	}
	if e.IsHardlink {
		if target, ok := findByPath(sorted, e.HardlinkName); ok {
			return fsutil.ModeString(fileModeFor(target))
		}
	}
	return fsutil.ModeString(fileModeFor(e))
}

// findByPath binary-searches sorted (already ordered by Path) for an
// entry whose Path matches target.
func findByPath(sorted []domain.ArchiveEntry, target string) (domain.ArchiveEntry, bool) {
	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case sorted[mid].Path == target:
			return sorted[mid], true
		case sorted[mid].Path < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return domain.ArchiveEntry{}, false
}

// fileModeFor reconstructs an os.FileMode (type bits + permission bits)
// from an archive entry's raw mode and type flags, since tar headers
// carry type out of band from the permission bits.
func fileModeFor(e domain.ArchiveEntry) os.FileMode {
	mode := os.FileMode(e.Mode) & os.ModePerm
	switch {
	case e.IsDir:
		mode |= os.ModeDir
	case e.IsSymlink:
		mode |= os.ModeSymlink
	case e.IsDevice && e.IsCharDevice:
		mode |= os.ModeDevice | os.ModeCharDevice
	case e.IsDevice:
		mode |= os.ModeDevice
	}
	if e.Mode&04000 != 0 {
		mode |= os.ModeSetuid
	}
	if e.Mode&02000 != 0 {
		mode |= os.ModeSetgid
	}
	if e.Mode&01000 != 0 {
		mode |= os.ModeSticky
	}
	return mode
}

func suffixFor(e domain.ArchiveEntry) string {
	switch {
	case e.IsSymlink:
		return " -> " + e.LinkTarget
	case e.IsDevice:
		return fmt.Sprintf(" (%d, %d)", e.RdevMajor, e.RdevMinor)
	case e.Size == 0 && !e.IsDir:
		return " (EMPTY)"
	default:
		return ""
	}
}

func ownerString(id int, lookup func(int) (string, bool)) string {
	if name, ok := lookup(id); ok {
		return name
	}
	return strconv.Itoa(id)
}

func lookupUserName(uid int) (string, bool) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return "", false
	}
	return u.Username, true
}

func lookupGroupName(gid int) (string, bool) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		return "", false
	}
	return g.Name, true
}

// Format renders a report as the newline-joined text the query
// front-end writes to stdout.
func Format(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
