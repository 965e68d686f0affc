package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opkgtool/pkgctl/internal/catalogue"
	"github.com/opkgtool/pkgctl/internal/domain"
)

func TestCheckBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0755))
	require.NoError(t, os.Symlink("missing-target", filepath.Join(root, "lib/x")))

	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1", Files: []string{"lib/x"}})

	findings := Check(store, nil, Options{})
	require.Len(t, findings, 1)
	assert.Equal(t, BrokenSymlink, findings[0].Kind)
	assert.Equal(t, "lib/x", findings[0].Path)
}

func TestCheckDisappearedFile(t *testing.T) {
	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1", Files: []string{"bin/gone"}})

	findings := Check(store, nil, Options{})
	require.Len(t, findings, 1)
	assert.Equal(t, Disappeared, findings[0].Kind)
	assert.Equal(t, "bin/gone", findings[0].Path)
}

func TestCheckHealthyPackageReportsNothing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin/foo"), []byte("x"), 0755))

	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1", Files: []string{"bin/foo"}})

	findings := Check(store, nil, Options{})
	assert.Empty(t, findings)
}

func TestCheckSymlinkOwnedBySamePackageIsFine(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib/real"), []byte("x"), 0644))
	require.NoError(t, os.Symlink("real", filepath.Join(root, "lib/x")))

	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1", Files: []string{"lib/x", "lib/real"}})

	findings := Check(store, nil, Options{})
	assert.Empty(t, findings)
}

func TestCheckExplicitPackageList(t *testing.T) {
	root := t.TempDir()
	store, err := catalogue.Open(root)
	require.NoError(t, err)
	store.Catalogue().Add("foo", domain.PackageEntry{Name: "foo", Version: "1", Files: []string{"bin/gone"}})
	store.Catalogue().Add("bar", domain.PackageEntry{Name: "bar", Version: "1", Files: []string{"bin/alsogone"}})

	findings := Check(store, []string{"foo"}, Options{})
	require.Len(t, findings, 1)
	assert.Equal(t, "foo", findings[0].Package)
}
