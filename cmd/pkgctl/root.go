package main

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"github.com/opkgtool/pkgctl/internal/config"
	"github.com/opkgtool/pkgctl/internal/domain"
	"github.com/opkgtool/pkgctl/internal/logging"
)

type globalFlags struct {
	root     string
	confPath string
	verbose  int
	noColor  bool
	logJSON  bool
}

var globalCfg globalFlags

// NewRootCommand builds the multicall pkgctl command tree. Persistent
// flags carry the target root and verbosity shared by every verb, plus
// the ambient --no-color, --log-json and --config switches; per-verb
// flags live on each subcommand.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pkgctl",
		Short:         "Source-based package state engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&globalCfg.root, "root", "r", "/", "target root directory")
	root.PersistentFlags().CountVarP(&globalCfg.verbose, "verbose", "v", "increase verbosity (repeatable)")
	root.PersistentFlags().BoolVar(&globalCfg.noColor, "no-color", false, "disable color output")
	root.PersistentFlags().BoolVar(&globalCfg.logJSON, "log-json", false, "output logs in JSON format")
	root.PersistentFlags().StringVar(&globalCfg.confPath, "config", "", "ambient pkgctl configuration file (default: search /etc, $HOME/.config/pkgctl)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyConfigDefaults(cmd)
	}

	root.AddCommand(
		newInstallCommand(),
		newRemoveCommand(),
		newQueryCommand(),
		newCheckCommand(),
	)
	return root
}

func newLogger() domain.Logger {
	level := logging.LevelForVerbosity(globalCfg.verbose)
	if globalCfg.logJSON {
		return logging.NewJSON(os.Stderr, level)
	}
	noColor := globalCfg.noColor || !term.IsTerminal(int(os.Stderr.Fd()))
	return logging.NewConsole(os.Stderr, level, noColor)
}

// applyConfigDefaults layers the ambient YAML configuration under
// whatever the user actually passed on the command line: a flag the
// user touched always wins.
func applyConfigDefaults(cmd *cobra.Command) error {
	cfg, err := config.Load(globalCfg.confPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("root") {
		globalCfg.root = cfg.Root
	}
	if !cmd.Flags().Changed("no-color") {
		globalCfg.noColor = cfg.NoColor
	}
	if !cmd.Flags().Changed("log-json") {
		globalCfg.logJSON = cfg.LogFormat == "json"
	}
	if globalCfg.verbose >= 2 {
		if dump, err := cfg.Dump(); err == nil {
			newLogger().Debug("resolved ambient configuration", "yaml", string(dump))
		}
	}
	return nil
}

// requireRoot enforces the uid-0 requirement the spec places on the
// install and remove verbs (§6); query and check carry none.
func requireRoot(operation string) error {
	if os.Geteuid() != 0 {
		return domain.ErrPermissionDenied{Operation: operation}
	}
	return nil
}

// withSignalsIgnored runs fn with SIGHUP, SIGINT, SIGQUIT, and SIGTERM
// ignored for its entire duration, restoring normal disposition
// afterward. This is the redesign spec §5 calls for: the source
// program's blanket ignore-during-mutation behavior, preserved here for
// the whole lifetime of a mutating verb invocation rather than around
// individual syscalls, per the design note in §9.
func withSignalsIgnored(fn func() error) error {
	signal.Ignore(terminatingSignals()...)
	defer signal.Reset(terminatingSignals()...)
	return fn()
}

func printErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pkgctl: "+format+"\n", args...)
}
