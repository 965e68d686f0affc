package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opkgtool/pkgctl/internal/engine"
	"github.com/opkgtool/pkgctl/internal/integrity"
)

func newCheckCommand() *cobra.Command {
	var (
		linksOnly  bool
		disappears bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "check [PACKAGE...]",
		Short: "Audit installed packages for broken links and missing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, set := range []bool{linksOnly, disappears, all} {
				if set {
					selected++
				}
			}
			if selected != 1 {
				return fmt.Errorf("exactly one of -l, -d, -a is required")
			}

			e, err := engine.Open(globalCfg.root, true, newLogger())
			if err != nil {
				return err
			}
			defer e.Close()

			findings := e.Check(args, integrity.Options{Verbose: globalCfg.verbose > 0})

			anyReported := false
			for _, f := range findings {
				if !wantsKind(f.Kind, linksOnly, disappears, all) {
					continue
				}
				anyReported = true
				printFinding(f)
			}
			if anyReported {
				return fmt.Errorf("integrity check reported issues")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&linksOnly, "links", "l", false, "audit symlinks only")
	cmd.Flags().BoolVarP(&disappears, "disappeared", "d", false, "audit for missing files only")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "run every audit")
	return cmd
}

func wantsKind(kind integrity.FindingKind, linksOnly, disappears, all bool) bool {
	if all {
		return true
	}
	switch kind {
	case integrity.BrokenSymlink, integrity.CrossPackageReference:
		return linksOnly
	case integrity.Disappeared:
		return disappears
	default:
		return false
	}
}

func printFinding(f integrity.Finding) {
	switch f.Kind {
	case integrity.BrokenSymlink:
		fmt.Printf("%s: %s: broken symlink\n", f.Package, f.Path)
	case integrity.CrossPackageReference:
		fmt.Printf("%s: %s: resolves outside any package it or its owners claim\n", f.Package, f.Path)
		if len(f.ImmediateOwners) > 0 || len(f.RealOwners) > 0 {
			fmt.Printf("    immediate owners: %v, real owners: %v\n", f.ImmediateOwners, f.RealOwners)
		}
	case integrity.Disappeared:
		fmt.Printf("%s: %s: missing\n", f.Package, f.Path)
		if len(f.ClaimedBy) > 0 {
			fmt.Printf("    still claimed by: %v\n", f.ClaimedBy)
		}
	}
}
