// Package rules parses and evaluates the install-rule configuration
// consumed from pkgadd.conf (spec §6): an ordered list of
// (event, ERE pattern, action) triples where later rules override
// earlier ones on a given path.
package rules

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/opkgtool/pkgctl/internal/domain"
)

const maxLineLength = 256

// CompiledRule is a Rule with its pattern pre-compiled once at load time,
// per the spec's design note (§9) against ad hoc per-match compilation.
type CompiledRule struct {
	Event   domain.Event
	Action  domain.Action
	Pattern *regexp.Regexp
}

// List is an ordered sequence of compiled rules.
type List []CompiledRule

// Parse reads the pkgadd.conf format: non-empty, non-'#' lines each
// carrying exactly three whitespace-separated tokens (event, ERE
// pattern, action). Lines longer than 256 bytes are rejected.
func Parse(r io.Reader, filename string) (List, error) {
	var list List
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength+1)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if len(line) > maxLineLength {
			return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: "line exceeds 256 bytes"}
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) != 3 {
			return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields))}
		}

		event, err := parseEvent(fields[0])
		if err != nil {
			return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: err.Error()}
		}
		action, err := parseAction(fields[2])
		if err != nil {
			return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: err.Error()}
		}
		pattern, err := regexp.CompilePOSIX(fields[1])
		if err != nil {
			return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: fmt.Sprintf("bad pattern: %v", err)}
		}

		list = append(list, CompiledRule{Event: event, Action: action, Pattern: pattern})
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.ErrConfigParse{Filename: filename, Line: lineno, Reason: err.Error()}
	}
	return list, nil
}

func parseEvent(s string) (domain.Event, error) {
	switch s {
	case "INSTALL":
		return domain.EventInstall, nil
	case "UPGRADE":
		return domain.EventUpgrade, nil
	default:
		return 0, fmt.Errorf("unknown event %q", s)
	}
}

func parseAction(s string) (domain.Action, error) {
	switch s {
	case "YES":
		return domain.ActionYes, nil
	case "NO":
		return domain.ActionNo, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Match finds the last rule with the given event whose pattern matches
// path, and returns its action and true. If no rule matches, ok is
// false.
func (l List) Match(event domain.Event, path string) (action domain.Action, ok bool) {
	for i := len(l) - 1; i >= 0; i-- {
		r := l[i]
		if r.Event != event {
			continue
		}
		if r.Pattern.MatchString(path) {
			return r.Action, true
		}
	}
	return 0, false
}

// Partition splits paths by event according to last-match-wins
// semantics: matched paths with action YES, or with no match at all, go
// to the "in" set; matched paths with action NO go to the "out" set.
func (l List) Partition(event domain.Event, paths []string) (in, out []string) {
	for _, p := range paths {
		action, matched := l.Match(event, p)
		if !matched || action == domain.ActionYes {
			in = append(in, p)
		} else {
			out = append(out, p)
		}
	}
	return in, out
}

// KeepList returns the subset of paths that match the last UPGRADE rule
// with action NO — the set of paths an upgrade should divert to the
// rejected area rather than overwrite.
func (l List) KeepList(paths []string) []string {
	var keep []string
	for _, p := range paths {
		if action, ok := l.Match(domain.EventUpgrade, p); ok && action == domain.ActionNo {
			keep = append(keep, p)
		}
	}
	return keep
}
