// Command pkgctl is the multicall package-management binary: install,
// remove, query, and check are dispatched either by os.Args[0]'s
// basename (when invoked through a hardlink or symlink named after the
// verb, per spec §6) or as a cobra subcommand of the pkgctl binary
// itself.
package main

import (
	"os"
	"path/filepath"
)

var knownVerbs = map[string]bool{
	"install": true,
	"remove":  true,
	"query":   true,
	"check":   true,
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := NewRootCommand()

	if verb := basenameVerb(); verb != "" {
		os.Args = append([]string{os.Args[0], verb}, os.Args[1:]...)
	}

	if err := rootCmd.Execute(); err != nil {
		printErr("%v", err)
		return 1
	}
	return 0
}

// basenameVerb reports the verb implied by os.Args[0]'s basename, if it
// names one of the four front-ends and isn't the multicall binary's own
// name. This lets "pkgctl" be hardlinked or symlinked as "install",
// "remove", "query", or "check" and behave accordingly without a
// subcommand argument.
func basenameVerb() string {
	base := filepath.Base(os.Args[0])
	if knownVerbs[base] {
		return base
	}
	return ""
}
