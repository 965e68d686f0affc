package conflict

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opkgtool/pkgctl/internal/domain"
)

func TestDetectDBConflict(t *testing.T) {
	root := t.TempDir()
	cat := domain.NewCatalogue()
	cat.Add("a", domain.PackageEntry{Name: "a", Version: "1", Files: []string{"bin/x"}})

	got := Detect(cat, root, "b", []string{"bin/x"})
	assert.Equal(t, []string{"bin/x"}, got)
}

func TestDetectFilesystemConflict(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin/x"), []byte("x"), 0644))

	cat := domain.NewCatalogue()
	got := Detect(cat, root, "a", []string{"bin/x"})
	assert.Equal(t, []string{"bin/x"}, got)
}

func TestDetectExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	cat := domain.NewCatalogue()
	cat.Add("a", domain.PackageEntry{Name: "a", Version: "1", Files: []string{"share/lib/"}})

	got := Detect(cat, root, "b", []string{"share/lib/"})
	assert.Empty(t, got)
}

func TestDetectSelfUpgradeExcludesOwnFiles(t *testing.T) {
	root := t.TempDir()
	cat := domain.NewCatalogue()
	cat.Add("foo", domain.PackageEntry{Name: "foo", Version: "1.0", Files: []string{"bin/foo", "etc/foo.conf"}})

	got := Detect(cat, root, "foo", []string{"bin/foo", "etc/foo.conf"})
	assert.Empty(t, got)
}

func TestDetectNoConflicts(t *testing.T) {
	root := t.TempDir()
	cat := domain.NewCatalogue()
	got := Detect(cat, root, "a", []string{"bin/new"})
	assert.Empty(t, got)
}

func TestDetectMultipleSources(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin/y"), []byte("x"), 0644))

	cat := domain.NewCatalogue()
	cat.Add("a", domain.PackageEntry{Name: "a", Version: "1", Files: []string{"bin/x"}})

	got := Detect(cat, root, "b", []string{"bin/x", "bin/y", "bin/new"})
	sort.Strings(got)
	assert.Equal(t, []string{"bin/x", "bin/y"}, got)
}
