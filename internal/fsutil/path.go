// Package fsutil implements the path and filesystem helper operations
// shared across the engine: path normalisation, mode formatting, file
// comparison, and upward directory pruning.
package fsutil

import "strings"

// Normalise collapses any run of consecutive '/' into a single '/'. It
// does not resolve "." or ".." segments and preserves a leading slash
// when present.
func Normalise(path string) string {
	if path == "" {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
