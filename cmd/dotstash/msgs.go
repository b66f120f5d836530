package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Back up, install and restore your dotfiles"
	MsgBackupShort     = "Back up the tracked dotfiles into a timestamped run"
	MsgBackupTmuxShort = "Back up the tmux files into a separate set"
	MsgListShort       = "List backup runs, most recent first"
	MsgRestoreShort    = "Restore a backup run over the live dotfiles"
	MsgCleanupShort    = "Delete one backup run (files and manifest entries)"
	MsgInstallShort    = "Back up existing dotfiles and link the tracked set into the repo"
	MsgUninstallShort  = "Restore the latest backup and optionally purge the install"
	MsgProfileShort    = "Manage git identity profiles"
	MsgScaffoldShort   = "Create the prompts directory tree and a starter config"
	MsgDocsShort       = "Browse the markdown docs shipped with the dotfiles repo"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice = "\nDRY RUN MODE - No changes were made"
	MsgNoBackups    = "No backup runs recorded."
)
