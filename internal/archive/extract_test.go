package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRegularFileAndDir(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir, "foo#1.0.pkg.tar.gz", []testEntry{
		{name: "share/foo/", typeflag: tar.TypeDir, mode: 0755},
		{name: "bin/foo", typeflag: tar.TypeReg, mode: 0755, content: "binary-data"},
	})

	root := t.TempDir()
	x, err := OpenForExtract(path, DefaultExtractOptions())
	require.NoError(t, err)
	defer x.Close()

	for {
		entry, ok, err := x.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		target := filepath.Join(root, entry.Path)
		require.NoError(t, x.ExtractTo(target))
	}

	data, err := os.ReadFile(filepath.Join(root, "bin/foo"))
	require.NoError(t, err)
	assert.Equal(t, "binary-data", string(data))

	info, err := os.Stat(filepath.Join(root, "share/foo"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	fi, err := os.Stat(filepath.Join(root, "bin/foo"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), fi.Mode().Perm())
}

func TestExtractSymlink(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir, "foo#1.0.pkg.tar.gz", []testEntry{
		{name: "lib/x", typeflag: tar.TypeSymlink, mode: 0777, linkname: "y"},
	})

	root := t.TempDir()
	x, err := OpenForExtract(path, DefaultExtractOptions())
	require.NoError(t, err)
	defer x.Close()

	entry, ok, err := x.Next()
	require.NoError(t, err)
	require.True(t, ok)
	target := filepath.Join(root, entry.Path)
	require.NoError(t, x.ExtractTo(target))

	got, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

func TestExtractUnlinkBeforeCreate(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir, "foo#1.0.pkg.tar.gz", []testEntry{
		{name: "bin/foo", typeflag: tar.TypeReg, mode: 0755, content: "new"},
	})

	root := t.TempDir()
	target := filepath.Join(root, "bin/foo")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	x, err := OpenForExtract(path, DefaultExtractOptions())
	require.NoError(t, err)
	defer x.Close()

	_, ok, err := x.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, x.ExtractTo(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
