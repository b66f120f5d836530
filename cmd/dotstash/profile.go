package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstash/pkg/gitprofile"
	"github.com/arthur-debert/dotstash/pkg/style"
)

func newProfileCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: MsgProfileShort,
		Long: `Profiles are git identities declared in profiles.toml: user.name,
user.email and the SSH key used for that account. Switching a profile
rewrites the global git config.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the declared profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := buildDeps()
				if err != nil {
					return err
				}
				p := style.NewPrinter(cmd.OutOrStdout())

				profiles, err := gitprofile.New(d.fs, d.paths).List()
				if err != nil {
					return err
				}
				p.Title("Git profiles")
				for _, profile := range profiles {
					p.Info("%s  <%s>", profile.Name, profile.UserEmail)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Show the active global git identity",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := buildDeps()
				if err != nil {
					return err
				}
				p := style.NewPrinter(cmd.OutOrStdout())

				id, err := gitprofile.New(d.fs, d.paths).Current()
				if err != nil {
					return err
				}
				if id.UserName == "" && id.UserEmail == "" {
					p.Warning("no global git identity configured")
					return nil
				}
				p.Info("%s <%s>", id.UserName, id.UserEmail)
				return nil
			},
		},
		&cobra.Command{
			Use:   "switch <name>",
			Short: "Make the named profile the global git identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := buildDeps()
				if err != nil {
					return err
				}
				p := style.NewPrinter(cmd.OutOrStdout())

				result, err := gitprofile.New(d.fs, d.paths).Switch(args[0])
				if err != nil {
					return err
				}
				p.Success("switched to profile %s (%s)", result.Profile.Name, result.Profile.UserEmail)
				if result.Reminder != "" {
					p.Warning("%s", result.Reminder)
				}
				return nil
			},
		},
	)

	return cmd
}
