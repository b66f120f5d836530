package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/filesystem"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/manifest"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/types"
	"github.com/arthur-debert/dotstash/pkg/ui"
)

// Version information, set at build time via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootFlags holds the flag values shared across the command tree.
// verbosity and assumeYes are persistent; dryRun and force are bound
// only on the commands that honor them.
type rootFlags struct {
	verbosity int
	dryRun    bool
	force     bool
	assumeYes bool
}

// NewRootCmd builds the full dotstash command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dotstash",
		Short: MsgRootShort,
		Long: `dotstash manages a dotfiles installation: it backs up the live
config files into timestamped runs, links the tracked dotfiles into
the repo clone, and can roll any run back.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVarP(&flags.assumeYes, "yes", "y", false, "Assume yes for all confirmation prompts")

	rootCmd.AddCommand(
		newVersionCmd(),
		newCompletionCmd(),
		newBackupCmd(flags),
		newListCmd(flags),
		newRestoreCmd(flags),
		newCleanupCmd(flags),
		newInstallCmd(flags),
		newUninstallCmd(flags),
		newProfileCmd(flags),
		newScaffoldCmd(flags),
		newDocsCmd(flags),
	)

	return rootCmd
}

// deps is the wired dependency set the commands run against.
type deps struct {
	fs    types.FS
	paths paths.Paths
	cfg   *config.Config
	store *manifest.Store
}

// buildDeps constructs the shared dependencies from the environment
// and config file.
func buildDeps() (*deps, error) {
	fsys := filesystem.NewOS()
	p, err := paths.New("", "")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}
	return &deps{
		fs:    fsys,
		paths: p,
		cfg:   cfg,
		store: manifest.New(fsys, p.ManifestPath()),
	}, nil
}

// confirmer returns the Confirmer matching the --yes flag.
func (f *rootFlags) confirmer(cmd *cobra.Command) types.Confirmer {
	if f.assumeYes {
		return types.AssumeYes
	}
	return ui.NewConsoleConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dotstash version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
