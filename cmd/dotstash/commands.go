package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotstash/pkg/backup"
	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/install"
	"github.com/arthur-debert/dotstash/pkg/restore"
	"github.com/arthur-debert/dotstash/pkg/style"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// reportRun prints the per-file outcome of a backup or restore run
// and returns an error when any file failed, so the process exits
// non-zero without rolling back the files that succeeded.
func reportRun(p *style.Printer, result *types.RunResult, verb string) error {
	for _, f := range result.Processed {
		p.Success("%s %s", verb, p.Path(f.Path))
	}
	for _, f := range result.Skipped {
		p.Skipped("skipped %s", p.Path(f.Path))
	}
	for _, f := range result.Failed {
		p.Error("%s: %v", f.Path, f.Err)
	}
	p.Summary(result.Ok(), "%d %s, %d skipped, %d failed",
		len(result.Processed), verb, len(result.Skipped), len(result.Failed))
	if len(result.Failed) > 0 {
		return errors.Newf(errors.ErrFileCopy, "%d file(s) failed", len(result.Failed))
	}
	return nil
}

func newBackupCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: MsgBackupShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			result, err := backup.New(d.fs, d.paths, d.store, d.cfg).Run()
			if err != nil {
				return err
			}
			if reportErr := reportRun(p, result, "backed up"); reportErr != nil {
				return reportErr
			}
			if len(result.Processed) > 0 {
				p.Info("run recorded as %s", result.Timestamp)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tmux",
		Short: MsgBackupTmuxShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			result, err := backup.New(d.fs, d.paths, d.store, d.cfg).RunTmux()
			if err != nil {
				return err
			}
			return reportRun(p, result, "backed up")
		},
	})

	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}

			runs, err := d.store.Runs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				data, err := json.MarshalIndent(runs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(runs)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			case "text":
				p := style.NewPrinter(out)
				if len(runs) == 0 {
					p.Info(MsgNoBackups)
					return nil
				}
				p.Title("Backup runs")
				for _, run := range runs {
					p.Info("%s  (%d files)", run.Timestamp, len(run.Entries))
					for _, e := range run.Entries {
						p.Skipped("  %s -> %s", e.Item, p.Path(e.BackupPath))
					}
				}
			default:
				return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func newRestoreCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [timestamp]",
		Short: MsgRestoreShort,
		Long: `Restore copies every file of a backup run back over its live path,
removing any symlink dotstash installed there. With no argument the
most recent run is restored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			timestamp := restore.Latest
			if len(args) == 1 {
				timestamp = args[0]
			}

			result, err := restore.New(d.fs, d.paths, d.store).Restore(timestamp)
			if err != nil {
				return err
			}
			return reportRun(p, result, "restored")
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tmux [dir]",
		Short: "Restore a tmux side-backup set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			result, err := restore.New(d.fs, d.paths, d.store).RestoreTmux(dir)
			if err != nil {
				return err
			}
			return reportRun(p, result, "restored")
		},
	})

	return cmd
}

func newCleanupCmd(flags *rootFlags) *cobra.Command {
	var orphans bool

	cmd := &cobra.Command{
		Use:   "cleanup [timestamp]",
		Short: MsgCleanupShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())
			restorer := restore.New(d.fs, d.paths, d.store)

			if orphans {
				removed, err := restorer.CleanupOrphans()
				if err != nil {
					return err
				}
				for _, name := range removed {
					p.Success("removed orphaned run directory %s", name)
				}
				if len(removed) == 0 {
					p.Info("no orphaned run directories")
				}
				return nil
			}

			if len(args) != 1 {
				return errors.New(errors.ErrInvalidInput, "cleanup needs a timestamp (or --orphans)")
			}
			timestamp := args[0]

			ok, err := flags.confirmer(cmd).Confirm(
				fmt.Sprintf("Delete backup run %s and its files?", timestamp), false)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			if err := restorer.Cleanup(timestamp); err != nil {
				return err
			}
			p.Success("deleted backup run %s", timestamp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&orphans, "orphans", false, "Remove run directories missing from the manifest")
	return cmd
}

func newInstallCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: MsgInstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			recorder := backup.New(d.fs, d.paths, d.store, d.cfg)
			installer := install.New(d.fs, d.paths, d.cfg, recorder, flags.confirmer(cmd))
			installer.DryRun = flags.dryRun

			result, err := installer.Install()
			if err != nil {
				return err
			}

			if result.BackupTimestamp != "" {
				p.Info("existing files backed up as run %s", result.BackupTimestamp)
			}
			for _, l := range result.Links {
				switch l.State {
				case install.StateLinked:
					p.Success("%s -> %s", p.Path(l.Live), p.Path(l.Source))
				case install.StateAlreadyLinked:
					p.Skipped("%s already linked", p.Path(l.Live))
				case install.StateNoSource:
					p.Warning("%s has no repo file %s", l.Item, p.Path(l.Source))
				case install.StateFailed:
					p.Error("%s: %v", l.Live, l.Err)
				}
			}
			if flags.dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
			}

			if failed := result.Failed(); len(failed) > 0 {
				return errors.Newf(errors.ErrSymlinkCreate, "%d link(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Preview changes without executing them")
	return cmd
}

func newUninstallCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: MsgUninstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			restorer := restore.New(d.fs, d.paths, d.store)
			uninstaller := install.NewUninstaller(d.fs, d.paths, restorer, flags.confirmer(cmd))

			result, err := uninstaller.Uninstall()
			if err != nil {
				return err
			}
			return reportRun(p, result, "restored")
		},
	}
}
