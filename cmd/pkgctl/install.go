package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opkgtool/pkgctl/internal/engine"
	"github.com/opkgtool/pkgctl/internal/install"
	"github.com/opkgtool/pkgctl/internal/rules"
)

func newInstallCommand() *cobra.Command {
	var (
		confPath string
		upgrade  bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "install ARCHIVE",
		Short: "Add or upgrade one package from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot("install"); err != nil {
				return err
			}

			logger := newLogger()
			ruleList, err := loadRules(confPath)
			if err != nil {
				return err
			}

			return withSignalsIgnored(func() error {
				e, err := engine.Open(globalCfg.root, false, logger)
				if err != nil {
					return err
				}
				defer e.Close()

				if globalCfg.verbose > 0 {
					logger.Info("installing", "archive", args[0])
				}

				result, err := e.Install(args[0], ruleList, install.Options{Upgrade: upgrade, Force: force})
				if err != nil {
					return err
				}
				logger.Info("installed", "name", result.Name, "version", result.Version)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&confPath, "conf", "c", "/etc/pkgadd.conf", "install-rule configuration file")
	cmd.Flags().BoolVarP(&upgrade, "upgrade", "u", false, "upgrade an already-installed package")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "proceed past file conflicts")
	return cmd
}

func loadRules(path string) (rules.List, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return rules.Parse(f, path)
}
