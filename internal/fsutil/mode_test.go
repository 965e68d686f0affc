package fsutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeStringRegular(t *testing.T) {
	assert.Equal(t, "-rw-r--r--", ModeString(0644))
	assert.Equal(t, "-rwxr-xr-x", ModeString(0755))
}

func TestModeStringDirectory(t *testing.T) {
	assert.Equal(t, "drwxr-xr-x", ModeString(os.ModeDir|0755))
}

func TestModeStringSetuidSetgidSticky(t *testing.T) {
	assert.Equal(t, "-rwsr-xr-x", ModeString(os.ModeSetuid|0755))
	assert.Equal(t, "-rwxr-sr-x", ModeString(os.ModeSetgid|0755))
	assert.Equal(t, "-rwxr-xr-t", ModeString(os.ModeSticky|0755))
	// special bit set without the corresponding execute bit uses the
	// upper-case form.
	assert.Equal(t, "-rwSr--r--", ModeString(os.ModeSetuid|0644))
	assert.Equal(t, "-rw-r-Sr--", ModeString(os.ModeSetgid|0644))
	assert.Equal(t, "-rw-r--r-T", ModeString(os.ModeSticky|0644))
}

func TestModeStringSymlink(t *testing.T) {
	assert.Equal(t, "lrwxrwxrwx", ModeString(os.ModeSymlink|0777))
	assert.Equal(t, SymlinkModeString, ModeString(os.ModeSymlink|0))
}

func TestModeStringDevices(t *testing.T) {
	assert.Equal(t, byte('c'), ModeString(os.ModeCharDevice|os.ModeDevice|0600)[0])
	assert.Equal(t, byte('b'), ModeString(os.ModeDevice|0600)[0])
	assert.Equal(t, byte('p'), ModeString(os.ModeNamedPipe|0600)[0])
	assert.Equal(t, byte('s'), ModeString(os.ModeSocket|0600)[0])
}
