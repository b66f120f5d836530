// Package install implements the idempotent dotfiles installer: sync
// the dotfiles repo, back up existing files, replace them with
// symlinks into the repo, and run brew bundle. The uninstaller
// reverses it via the restore package.
package install

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arthur-debert/dotstash/pkg/backup"
	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/fileops"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/restore"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// LinkState describes what the installer did with one tracked file.
type LinkState string

const (
	StateLinked        LinkState = "linked"         // symlink created
	StateAlreadyLinked LinkState = "already-linked" // correct symlink was present
	StateNoSource      LinkState = "no-source"      // repo file missing, skipped
	StateFailed        LinkState = "failed"
)

// LinkResult is the per-file outcome of an install.
type LinkResult struct {
	Item   string
	Live   string
	Source string
	State  LinkState
	Err    error
}

// Result aggregates an install run.
type Result struct {
	BackupTimestamp string
	Links           []LinkResult
}

// Failed returns the links that could not be created.
func (r *Result) Failed() []LinkResult {
	var failed []LinkResult
	for _, l := range r.Links {
		if l.State == StateFailed {
			failed = append(failed, l)
		}
	}
	return failed
}

// Installer wires the repo sync, backup and symlink steps together.
type Installer struct {
	fs       types.FS
	paths    paths.Paths
	cfg      *config.Config
	recorder *backup.Recorder
	confirm  types.Confirmer

	// DryRun plans the symlinks without touching the filesystem.
	DryRun bool

	// runCommand executes an external collaborator (git, brew). The
	// only contract with them is exit code 0; tests substitute this.
	runCommand func(name string, args ...string) error

	// lookPath resolves a binary on PATH; tests substitute this.
	lookPath func(name string) (string, error)
}

// New creates an Installer.
func New(fsys types.FS, p paths.Paths, cfg *config.Config, recorder *backup.Recorder, confirm types.Confirmer) *Installer {
	return &Installer{
		fs:       fsys,
		paths:    p,
		cfg:      cfg,
		recorder: recorder,
		confirm:  confirm,
		runCommand: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				return errors.Wrapf(err, errors.ErrCommandFailed, "%s failed", name)
			}
			return nil
		},
		lookPath: exec.LookPath,
	}
}

// Install runs the full flow: repo sync, confirmed backup, symlinks,
// brew bundle. It is idempotent: already-correct symlinks are
// detected and left alone, and rerunning changes nothing.
func (i *Installer) Install() (*Result, error) {
	logger := logging.GetLogger("install")
	result := &Result{}

	if err := i.syncRepo(); err != nil {
		return nil, err
	}

	if !i.DryRun {
		ts, err := i.backupExisting()
		if err != nil {
			return nil, err
		}
		result.BackupTimestamp = ts
	}

	for _, tf := range i.cfg.Tracked {
		result.Links = append(result.Links, i.link(tf))
	}

	if err := i.brewBundle(); err != nil {
		// Package installation failing should not undo the links;
		// report it but keep the result.
		logger.Warn().Err(err).Msg("brew bundle failed")
		return result, err
	}

	logger.Info().Int("links", len(result.Links)).Bool("dryRun", i.DryRun).
		Msg("Install finished")
	return result, nil
}

// backupExisting runs a backup of every tracked file that would be
// replaced, gated by a confirmation. Declining aborts the install
// before anything is touched.
func (i *Installer) backupExisting() (string, error) {
	ok, err := i.confirm.Confirm(
		"Existing dotfiles will be backed up to "+i.paths.BackupRoot()+" and replaced with symlinks. Continue?", true)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(errors.ErrInvalidInput, "install aborted by user")
	}

	res, err := i.recorder.Run()
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return res.Timestamp, errors.Newf(errors.ErrFileCopy,
			"%d file(s) could not be backed up, aborting install", len(res.Failed))
	}
	return res.Timestamp, nil
}

// link points one tracked live path at its repo source.
func (i *Installer) link(tf config.TrackedFile) LinkResult {
	logger := logging.GetLogger("install")
	live := i.paths.ExpandHome(tf.Path)
	source := filepath.Join(i.paths.DotfilesRoot(), tf.Source)
	res := LinkResult{Item: tf.Item, Live: live, Source: source}

	if _, err := i.fs.Stat(source); err != nil {
		logger.Warn().Str("source", source).Msg("Repo file missing, not linking")
		res.State = StateNoSource
		return res
	}

	if isLink, err := fileops.IsSymlink(i.fs, live); err == nil && isLink {
		if target, err := fileops.ResolveLink(i.fs, live); err == nil && target == filepath.Clean(source) {
			res.State = StateAlreadyLinked
			return res
		}
	}

	if i.DryRun {
		res.State = StateLinked
		return res
	}

	// The existing file was already captured by backupExisting; now
	// it gets out of the way.
	if err := i.fs.Remove(live); err != nil && !os.IsNotExist(err) {
		res.State = StateFailed
		res.Err = errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", live)
		return res
	}
	if err := i.fs.MkdirAll(filepath.Dir(live), 0755); err != nil {
		res.State = StateFailed
		res.Err = errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", live)
		return res
	}
	if err := i.fs.Symlink(source, live); err != nil {
		res.State = StateFailed
		res.Err = errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", live)
		return res
	}

	res.State = StateLinked
	return res
}

// syncRepo clones or pulls the dotfiles repo. Without a configured
// remote, or without git on PATH, the local clone is used as-is.
func (i *Installer) syncRepo() error {
	logger := logging.GetLogger("install")
	if i.cfg.Core.Repo == "" {
		return nil
	}
	if _, err := i.lookPath("git"); err != nil {
		logger.Warn().Msg("git not found on PATH, skipping repo sync")
		return nil
	}
	if i.DryRun {
		return nil
	}

	root := i.paths.DotfilesRoot()
	if _, err := i.fs.Stat(root); err == nil {
		logger.Info().Str("root", root).Msg("Pulling dotfiles repo")
		return i.runCommand("git", "-C", root, "pull", "--ff-only")
	}
	logger.Info().Str("repo", i.cfg.Core.Repo).Str("root", root).Msg("Cloning dotfiles repo")
	return i.runCommand("git", "clone", i.cfg.Core.Repo, root)
}

// brewBundle installs the Brewfile packages when both the Brewfile
// and the brew binary are present.
func (i *Installer) brewBundle() error {
	logger := logging.GetLogger("install")
	brewfile := filepath.Join(i.paths.DotfilesRoot(), i.cfg.Core.Brewfile)
	if _, err := i.fs.Stat(brewfile); err != nil {
		return nil
	}
	if _, err := i.lookPath("brew"); err != nil {
		logger.Warn().Msg("brew not found on PATH, skipping brew bundle")
		return nil
	}
	if i.DryRun {
		return nil
	}

	ok, err := i.confirm.Confirm("Install Brewfile packages with brew bundle?", true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return i.runCommand("brew", "bundle", "--file", brewfile)
}

// Uninstaller rolls an installation back.
type Uninstaller struct {
	fs       types.FS
	paths    paths.Paths
	restorer *restore.Restorer
	confirm  types.Confirmer
}

// NewUninstaller creates an Uninstaller.
func NewUninstaller(fsys types.FS, p paths.Paths, restorer *restore.Restorer, confirm types.Confirmer) *Uninstaller {
	return &Uninstaller{fs: fsys, paths: p, restorer: restorer, confirm: confirm}
}

// Uninstall restores the latest backup run and then, each behind its
// own confirmation, removes the dotfiles clone and the backup root.
func (u *Uninstaller) Uninstall() (*types.RunResult, error) {
	logger := logging.GetLogger("uninstall")

	result, err := u.restorer.Restore(restore.Latest)
	if err != nil {
		return nil, err
	}

	ok, err := u.confirm.Confirm(
		"Remove the dotfiles repository at "+u.paths.DotfilesRoot()+"?", false)
	if err != nil {
		return result, err
	}
	if ok {
		if err := u.fs.RemoveAll(u.paths.DotfilesRoot()); err != nil {
			return result, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove %s", u.paths.DotfilesRoot())
		}
		logger.Info().Str("root", u.paths.DotfilesRoot()).Msg("Removed dotfiles repository")
	}

	ok, err = u.confirm.Confirm(
		"Delete all backups under "+u.paths.BackupRoot()+"?", false)
	if err != nil {
		return result, err
	}
	if ok {
		if err := u.fs.RemoveAll(u.paths.BackupRoot()); err != nil {
			return result, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove %s", u.paths.BackupRoot())
		}
		logger.Info().Str("root", u.paths.BackupRoot()).Msg("Deleted all backups")
	}

	return result, nil
}
