package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/opkgtool/pkgctl/internal/engine"
	"github.com/opkgtool/pkgctl/internal/footprint"
)

func newQueryCommand() *cobra.Command {
	var (
		footprintArchive string
		listInstalled    bool
		listPackage      string
		ownerPattern     string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect archives or the installed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, set := range []bool{footprintArchive != "", listInstalled, listPackage != "", ownerPattern != ""} {
				if set {
					selected++
				}
			}
			if selected != 1 {
				return fmt.Errorf("exactly one of -f, -i, -l, -o is required")
			}

			if footprintArchive != "" {
				lines, err := footprint.Report(footprintArchive)
				if err != nil {
					return err
				}
				fmt.Print(footprint.Format(lines))
				return nil
			}

			e, err := engine.Open(globalCfg.root, true, newLogger())
			if err != nil {
				return err
			}
			defer e.Close()

			switch {
			case listInstalled:
				for _, name := range e.Catalogue().Names() {
					entry, _ := e.Catalogue().Get(name)
					fmt.Printf("%s %s\n", entry.Name, entry.Version)
				}
			case listPackage != "":
				files := append([]string(nil), e.Catalogue().FilesOf(listPackage)...)
				sort.Strings(files)
				for _, f := range files {
					fmt.Println(f)
				}
			case ownerPattern != "":
				owners, err := e.Owners(ownerPattern)
				if err != nil {
					return err
				}
				for _, name := range owners {
					fmt.Println(name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&footprintArchive, "footprint", "f", "", "print the footprint of an archive file")
	cmd.Flags().BoolVarP(&listInstalled, "installed", "i", false, "list every installed package")
	cmd.Flags().StringVarP(&listPackage, "list", "l", "", "list the files owned by a package")
	cmd.Flags().StringVarP(&ownerPattern, "owner", "o", "", "list packages owning a file matching an ERE pattern")
	return cmd
}
