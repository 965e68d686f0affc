package catalogue

import (
	"regexp"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// OwnersMatching compiles pattern as a POSIX ERE and returns, sorted,
// the name of every installed package owning at least one file path
// matching it. Per the design note in spec §9, a pattern built from a
// literal path (as the integrity checker does for its symlink audit)
// should be quoted with regexp.QuoteMeta by the caller so it only ever
// matches that one path.
func OwnersMatching(cat *domain.Catalogue, pattern string) ([]string, error) {
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, domain.ErrConfigParse{Filename: "<owner pattern>", Line: 0, Reason: err.Error()}
	}

	var owners []string
	for _, name := range cat.Names() {
		for _, f := range cat.FilesOf(name) {
			if re.MatchString(f) {
				owners = append(owners, name)
				break
			}
		}
	}
	return owners, nil
}

// OwnersOfLiteral is OwnersMatching with the path quoted so the pattern
// can only match that exact string, used anywhere ownership of a
// concrete filesystem path (rather than a user-supplied pattern) is
// needed.
func OwnersOfLiteral(cat *domain.Catalogue, path string) []string {
	owners, _ := OwnersMatching(cat, "^"+regexp.QuoteMeta(path)+"$")
	return owners
}
