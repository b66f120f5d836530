// Package paths provides centralized path handling for dotstash.
// Every filesystem location the tool touches is decided here so the
// components never compute layout on their own.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotstash/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for dotfiles location
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvBackupRoot overrides the backup directory location
	EnvBackupRoot = "DOTSTASH_BACKUP_DIR"

	// EnvConfigDir overrides the XDG config directory for dotstash
	EnvConfigDir = "DOTSTASH_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define the on-disk backup layout and are
// NOT user-configurable. The manifest and run directories must stay
// consistent across installations so old backups remain restorable.
const (
	// AppDirName is the directory name for dotstash-specific files
	AppDirName = "dotstash"

	// DefaultBackupDirName is the backup directory under $HOME
	DefaultBackupDirName = ".dotfiles-backup"

	// DefaultDotfilesDirName is the default dotfiles clone under $HOME
	DefaultDotfilesDirName = ".dotfiles"

	// ManifestFileName is the manifest file inside the backup root
	ManifestFileName = "manifest.json"

	// TmuxRunPrefix prefixes the separately-keyed tmux backup dirs
	TmuxRunPrefix = "tmux-"

	// ConfigFileName is the user configuration file
	ConfigFileName = "dotstash.toml"

	// ProfilesFileName is the git profile definitions file
	ProfilesFileName = "profiles.toml"
)

// Paths provides centralized path management for dotstash
type Paths interface {
	HomeDir() string
	DotfilesRoot() string
	BackupRoot() string
	ManifestPath() string
	RunDir(timestamp string) string
	TmuxRunDir(timestamp string) string
	ConfigDir() string
	ConfigFilePath() string
	ProfilesFilePath() string
	ExpandHome(path string) string
	// IsInDotfiles reports whether path, after resolving one level of
	// symlink indirection, lives inside the dotfiles root.
	IsInDotfiles(target string) bool
}

type paths struct {
	homeDir      string
	dotfilesRoot string
	backupRoot   string
	configDir    string
}

// New creates a Paths instance. Empty arguments fall back to the
// environment: homeDir from $HOME (or os.UserHomeDir), dotfilesRoot
// from $DOTFILES_ROOT (or ~/.dotfiles).
func New(homeDir, dotfilesRoot string) (Paths, error) {
	p := &paths{}

	if homeDir == "" {
		homeDir = os.Getenv(EnvHome)
	}
	if homeDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
		}
		homeDir = h
	}
	abs, err := filepath.Abs(homeDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for home %s", homeDir)
	}
	p.homeDir = abs

	if dotfilesRoot == "" {
		dotfilesRoot = os.Getenv(EnvDotfilesRoot)
	}
	if dotfilesRoot == "" {
		dotfilesRoot = filepath.Join(p.homeDir, DefaultDotfilesDirName)
	}
	p.dotfilesRoot = p.ExpandHome(dotfilesRoot)

	if root := os.Getenv(EnvBackupRoot); root != "" {
		p.backupRoot = p.ExpandHome(root)
	} else {
		p.backupRoot = filepath.Join(p.homeDir, DefaultBackupDirName)
	}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = p.ExpandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return p, nil
}

func (p *paths) HomeDir() string {
	return p.homeDir
}

func (p *paths) DotfilesRoot() string {
	return p.dotfilesRoot
}

func (p *paths) BackupRoot() string {
	return p.backupRoot
}

func (p *paths) ManifestPath() string {
	return filepath.Join(p.backupRoot, ManifestFileName)
}

func (p *paths) RunDir(timestamp string) string {
	return filepath.Join(p.backupRoot, timestamp)
}

func (p *paths) TmuxRunDir(timestamp string) string {
	return filepath.Join(p.backupRoot, TmuxRunPrefix+timestamp)
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

func (p *paths) ProfilesFilePath() string {
	return filepath.Join(p.configDir, ProfilesFileName)
}

// ExpandHome expands a leading ~/ to the home directory.
func (p *paths) ExpandHome(path string) string {
	if path == "~" {
		return p.homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(p.homeDir, path[2:])
	}
	return path
}

func (p *paths) IsInDotfiles(target string) bool {
	target = p.ExpandHome(target)
	if !filepath.IsAbs(target) {
		return false
	}
	target = filepath.Clean(target)
	root := filepath.Clean(p.dotfilesRoot)
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}
