package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withArgs0 sets os.Args[0] for the duration of fn and restores it
// afterward, mirroring the teacher's save/restore pattern for mutable
// package-level state in tests.
func withArgs0(t *testing.T, argv0 string, fn func()) {
	t.Helper()
	previous := os.Args
	os.Args = []string{argv0}
	t.Cleanup(func() { os.Args = previous })
	fn()
}

func TestBasenameVerbRecognisesKnownVerbs(t *testing.T) {
	cases := []struct {
		argv0 string
		want  string
	}{
		{"/usr/bin/install", "install"},
		{"/usr/bin/remove", "remove"},
		{"query", "query"},
		{"/sbin/check", "check"},
	}
	for _, tc := range cases {
		withArgs0(t, tc.argv0, func() {
			assert.Equal(t, tc.want, basenameVerb())
		})
	}
}

func TestBasenameVerbIgnoresTheMulticallBinaryItself(t *testing.T) {
	withArgs0(t, "/usr/bin/pkgctl", func() {
		assert.Equal(t, "", basenameVerb())
	})
}

func TestBasenameVerbIgnoresUnknownNames(t *testing.T) {
	withArgs0(t, "/usr/bin/something-else", func() {
		assert.Equal(t, "", basenameVerb())
	})
}
