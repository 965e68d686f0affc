package main

import (
	"github.com/spf13/cobra"

	"github.com/opkgtool/pkgctl/internal/engine"
)

func newRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove PACKAGE",
		Short: "Delete one installed package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot("remove"); err != nil {
				return err
			}

			logger := newLogger()

			return withSignalsIgnored(func() error {
				e, err := engine.Open(globalCfg.root, false, logger)
				if err != nil {
					return err
				}
				defer e.Close()

				if globalCfg.verbose > 0 {
					logger.Info("removing", "name", args[0])
				}

				if err := e.Remove(args[0]); err != nil {
					return err
				}
				logger.Info("removed", "name", args[0])
				return nil
			})
		},
	}
	return cmd
}
