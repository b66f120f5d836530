package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaths(t *testing.T) (Paths, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvBackupRoot, "")
	t.Setenv(EnvConfigDir, "")
	p, err := New(home, filepath.Join(home, ".dotfiles"))
	require.NoError(t, err)
	return p, home
}

func TestDefaultLayout(t *testing.T) {
	p, home := newTestPaths(t)

	assert.Equal(t, home, p.HomeDir())
	assert.Equal(t, filepath.Join(home, ".dotfiles"), p.DotfilesRoot())
	assert.Equal(t, filepath.Join(home, ".dotfiles-backup"), p.BackupRoot())
	assert.Equal(t, filepath.Join(home, ".dotfiles-backup", "manifest.json"), p.ManifestPath())
	assert.Equal(t, filepath.Join(home, ".dotfiles-backup", "20250101_120000"), p.RunDir("20250101_120000"))
	assert.Equal(t, filepath.Join(home, ".dotfiles-backup", "tmux-20250101_120000"), p.TmuxRunDir("20250101_120000"))
}

func TestEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvBackupRoot, filepath.Join(home, "elsewhere", "backups"))
	t.Setenv(EnvConfigDir, filepath.Join(home, "cfg"))
	t.Setenv(EnvDotfilesRoot, filepath.Join(home, "src", "dotfiles"))

	p, err := New(home, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "elsewhere", "backups"), p.BackupRoot())
	assert.Equal(t, filepath.Join(home, "cfg"), p.ConfigDir())
	assert.Equal(t, filepath.Join(home, "cfg", "dotstash.toml"), p.ConfigFilePath())
	assert.Equal(t, filepath.Join(home, "src", "dotfiles"), p.DotfilesRoot())
}

func TestExpandHome(t *testing.T) {
	p, home := newTestPaths(t)

	assert.Equal(t, filepath.Join(home, ".zshrc"), p.ExpandHome("~/.zshrc"))
	assert.Equal(t, home, p.ExpandHome("~"))
	assert.Equal(t, "/etc/hosts", p.ExpandHome("/etc/hosts"))
	assert.Equal(t, "relative/path", p.ExpandHome("relative/path"))
}

func TestIsInDotfiles(t *testing.T) {
	p, home := newTestPaths(t)
	root := filepath.Join(home, ".dotfiles")

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"file inside root", filepath.Join(root, "zsh", "zshrc"), true},
		{"the root itself", root, true},
		{"sibling with root prefix", root + "-backup/x", false},
		{"outside root", filepath.Join(home, ".zshrc"), false},
		{"tilde path inside root", "~/.dotfiles/zsh/zshrc", true},
		{"relative path", "zsh/zshrc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsInDotfiles(tt.target))
		})
	}
}
