package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opkgtool/pkgctl/internal/domain"
)

func TestParseFilenameBasic(t *testing.T) {
	name, version, err := ParseFilename("foo#1.0.pkg.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Equal(t, "1.0", version)
}

func TestParseFilenameStripsDirectory(t *testing.T) {
	name, version, err := ParseFilename("/var/cache/pkg/foo#1.0.pkg.tar.xz")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Equal(t, "1.0", version)
}

func TestParseFilenameVersionTakesLastMarker(t *testing.T) {
	// version may itself legitimately contain ".pkg.tar" only if the
	// marker search anchors on the *last* occurrence.
	name, version, err := ParseFilename("foo#1.0.pkg.tar.pkg.tar.zst")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Equal(t, "1.0.pkg.tar", version)
}

func TestParseFilenameNoHash(t *testing.T) {
	_, _, err := ParseFilename("foo-1.0.pkg.tar.gz")
	require.Error(t, err)
	var bad domain.ErrBadPackageName
	assert.ErrorAs(t, err, &bad)
}

func TestParseFilenameNoMarker(t *testing.T) {
	_, _, err := ParseFilename("foo#1.0.tar.gz")
	require.Error(t, err)
}

func TestParseFilenameEmptyName(t *testing.T) {
	_, _, err := ParseFilename("#1.0.pkg.tar.gz")
	require.Error(t, err)
}

func TestParseFilenameEmptyVersion(t *testing.T) {
	_, _, err := ParseFilename("foo#.pkg.tar.gz")
	require.Error(t, err)
}
