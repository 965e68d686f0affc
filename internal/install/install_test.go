package install

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opkgtool/pkgctl/internal/catalogue"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/rules"
)

type fixtureEntry struct {
	name     string
	typeflag byte
	mode     int64
	content  string
}

func writeArchive(t *testing.T, dir, filename string, entries []fixtureEntry) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Typeflag: e.typeflag,
			Mode:     e.mode,
			Size:     int64(len(e.content)),
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if e.content != "" {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestRunFreshInstall(t *testing.T) {
	archiveDir := t.TempDir()
	path := writeArchive(t, archiveDir, "foo#1.0.pkg.tar.gz", []fixtureEntry{
		{name: "share/foo/", typeflag: tar.TypeDir, mode: 0755},
		{name: "bin/foo", typeflag: tar.TypeReg, mode: 0755, content: "binary-data"},
		{name: "etc/foo.conf", typeflag: tar.TypeReg, mode: 0644, content: "A"},
	})

	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)

	result, err := Run(store, path, nil, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "foo", result.Name)
	assert.Equal(t, "1.0", result.Version)

	entry, ok := store.Catalogue().Get("foo")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"share/foo/", "bin/foo", "etc/foo.conf"}, entry.Files)

	data, err := os.ReadFile(filepath.Join(root, "bin/foo"))
	require.NoError(t, err)
	assert.Equal(t, "binary-data", string(data))

	dbBytes, err := os.ReadFile(store.DBPath())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(dbBytes), "\n\n") || strings.HasSuffix(string(dbBytes), "\n"))
}

func TestRunUpgradePreservesConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc/foo.conf"), []byte("A"), 0644))

	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1.0", Files: []string{"etc/foo.conf"}})
	require.NoError(t, store.Commit())

	ruleList, err := rules.Parse(strings.NewReader("UPGRADE ^etc/.*$ NO\n"), "pkgadd.conf")
	require.NoError(t, err)

	archiveDir := t.TempDir()
	path := writeArchive(t, archiveDir, "foo#1.1.pkg.tar.gz", []fixtureEntry{
		{name: "etc/foo.conf", typeflag: tar.TypeReg, mode: 0644, content: "B"},
	})

	result, err := Run(store, path, ruleList, Options{Upgrade: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.1", result.Version)

	data, err := os.ReadFile(filepath.Join(root, "etc/foo.conf"))
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))

	rejected, err := os.ReadFile(filepath.Join(store.RejectedDir(), "etc/foo.conf"))
	require.NoError(t, err)
	assert.Equal(t, "B", string(rejected))

	entry, ok := store.Catalogue().Get("foo")
	require.True(t, ok)
	assert.Equal(t, "1.1", entry.Version)
}

func TestRunConflictAbortsWithoutForce(t *testing.T) {
	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("a", domain.PackageEntry{Name: "a", Version: "1", Files: []string{"bin/x"}})
	require.NoError(t, store.Commit())

	archiveDir := t.TempDir()
	path := writeArchive(t, archiveDir, "b#1.pkg.tar.gz", []fixtureEntry{
		{name: "bin/x", typeflag: tar.TypeReg, mode: 0755, content: "other"},
	})

	_, err = Run(store, path, nil, Options{}, nil)
	require.Error(t, err)
	var conflictErr domain.ErrFileConflicts
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, []string{"bin/x"}, conflictErr.Paths)

	assert.False(t, store.Catalogue().Find("b"))
}

func TestRunAlreadyInstalledWithoutUpgrade(t *testing.T) {
	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1.0", Files: []string{"bin/foo"}})
	require.NoError(t, store.Commit())

	archiveDir := t.TempDir()
	path := writeArchive(t, archiveDir, "foo#1.1.pkg.tar.gz", []fixtureEntry{
		{name: "bin/foo", typeflag: tar.TypeReg, mode: 0755, content: "x"},
	})

	_, err = Run(store, path, nil, Options{}, nil)
	require.Error(t, err)
	var alreadyErr domain.ErrAlreadyInstalled
	require.ErrorAs(t, err, &alreadyErr)
}

func TestRunNotInstalledWithUpgrade(t *testing.T) {
	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)

	archiveDir := t.TempDir()
	path := writeArchive(t, archiveDir, "foo#1.1.pkg.tar.gz", []fixtureEntry{
		{name: "bin/foo", typeflag: tar.TypeReg, mode: 0755, content: "x"},
	})

	_, err = Run(store, path, nil, Options{Upgrade: true}, nil)
	require.Error(t, err)
	var notInstalledErr domain.ErrNotInstalled
	require.ErrorAs(t, err, &notInstalledErr)
}
