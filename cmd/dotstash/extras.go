package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstash/pkg/docs"
	"github.com/arthur-debert/dotstash/pkg/scaffold"
	"github.com/arthur-debert/dotstash/pkg/style"
)

func newScaffoldCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [dir]",
		Short: MsgScaffoldShort,
		Long: `Scaffold creates the prompts directory tree inside the dotfiles
repo (or the given directory) and writes a starter dotstash.toml if
none exists. Existing files are left alone unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			p := style.NewPrinter(cmd.OutOrStdout())

			root := d.paths.DotfilesRoot()
			if len(args) == 1 {
				root = d.paths.ExpandHome(args[0])
				if !filepath.IsAbs(root) {
					abs, err := filepath.Abs(root)
					if err == nil {
						root = abs
					}
				}
			}

			sc := scaffold.New(d.fs)
			sc.Force = flags.force

			result, err := sc.Prompts(root)
			if err != nil {
				return err
			}
			for _, path := range result.Created {
				p.Success("created %s", p.Path(path))
			}
			for _, path := range result.Skipped {
				p.Skipped("kept %s", p.Path(path))
			}

			written, err := sc.Config(d.paths.ConfigFilePath())
			if err != nil {
				return err
			}
			if written {
				p.Success("wrote starter config %s", p.Path(d.paths.ConfigFilePath()))
			} else {
				p.Skipped("kept config %s", p.Path(d.paths.ConfigFilePath()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite existing scaffold files")
	return cmd
}

func newDocsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "docs [topic]",
		Short: MsgDocsShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}

			viewer := docs.New(d.fs, filepath.Join(d.paths.DotfilesRoot(), d.cfg.Core.DocsDir))
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				topics, err := viewer.Topics()
				if err != nil {
					return err
				}
				p := style.NewPrinter(out)
				p.Title("Doc topics")
				for _, topic := range topics {
					p.Info("%s", topic)
				}
				return nil
			}

			colored := false
			if f, ok := out.(*os.File); ok {
				colored = isatty.IsTerminal(f.Fd())
			}
			content, err := viewer.Render(args[0], colored)
			if err != nil {
				return err
			}
			fmt.Fprint(out, content)
			return nil
		},
	}
}
