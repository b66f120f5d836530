// Package testutil orchestrates isolated test environments: a temp
// home directory, dotfiles root and backup root wired together with
// real components.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/filesystem"
	"github.com/arthur-debert/dotstash/pkg/manifest"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// TestEnvironment provides a complete isolated environment with all
// dependencies, rooted in a t.TempDir.
type TestEnvironment struct {
	HomeDir      string
	DotfilesRoot string
	BackupRoot   string

	FS    types.FS
	Paths paths.Paths
	Store *manifest.Store
	Cfg   *config.Config

	t *testing.T
}

// NewTestEnvironment creates an isolated environment. The tracked set
// starts empty; add files with Track.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		HomeDir:      filepath.Join(root, "home"),
		DotfilesRoot: filepath.Join(root, "dotfiles"),
		BackupRoot:   filepath.Join(root, "home", ".dotfiles-backup"),
		FS:           filesystem.NewOS(),
		Cfg:          &config.Config{Core: config.Core{Brewfile: "Brewfile", DocsDir: "docs"}},
		t:            t,
	}

	for _, dir := range []string{env.HomeDir, env.DotfilesRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("DOTFILES_ROOT", env.DotfilesRoot)
	t.Setenv("DOTSTASH_BACKUP_DIR", env.BackupRoot)
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("DOTSTASH_CONFIG_DIR", filepath.Join(root, "config"))

	p, err := paths.New(env.HomeDir, env.DotfilesRoot)
	if err != nil {
		t.Fatalf("failed to create paths: %v", err)
	}
	env.Paths = p
	env.Store = manifest.New(env.FS, p.ManifestPath())

	return env
}

// Track registers a tracked dotfile in the config and writes the live
// file with the given content. source is the repo-relative path the
// installer would link to.
func (e *TestEnvironment) Track(item, homeRelPath, source, content string) string {
	e.t.Helper()
	live := filepath.Join(e.HomeDir, homeRelPath)
	e.WriteFile(live, content)
	e.Cfg.Tracked = append(e.Cfg.Tracked, config.TrackedFile{
		Item:   item,
		Path:   live,
		Source: source,
	})
	return live
}

// TrackMissing registers a tracked dotfile without creating the live
// file.
func (e *TestEnvironment) TrackMissing(item, homeRelPath, source string) string {
	e.t.Helper()
	live := filepath.Join(e.HomeDir, homeRelPath)
	e.Cfg.Tracked = append(e.Cfg.Tracked, config.TrackedFile{
		Item:   item,
		Path:   live,
		Source: source,
	})
	return live
}

// WriteFile writes content to path, creating parent directories.
func (e *TestEnvironment) WriteFile(path, content string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteRepoFile writes a file inside the dotfiles root.
func (e *TestEnvironment) WriteRepoFile(relPath, content string) string {
	e.t.Helper()
	path := filepath.Join(e.DotfilesRoot, relPath)
	e.WriteFile(path, content)
	return path
}

// ReadFile returns the content of path, failing the test on error.
func (e *TestEnvironment) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		e.t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Symlink creates a symlink, failing the test on error.
func (e *TestEnvironment) Symlink(target, link string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		e.t.Fatalf("failed to create parent of %s: %v", link, err)
	}
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		e.t.Fatalf("failed to remove %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		e.t.Fatalf("failed to symlink %s -> %s: %v", link, target, err)
	}
}
