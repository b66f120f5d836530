package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/testutil"
)

func TestLoadDefaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	cfg, err := config.Load(env.Paths)
	require.NoError(t, err)

	assert.Equal(t, "Brewfile", cfg.Core.Brewfile)
	assert.Equal(t, "docs", cfg.Core.DocsDir)
	assert.Empty(t, cfg.Core.Repo)
	require.NotEmpty(t, cfg.Tracked)

	items := make(map[string]config.TrackedFile)
	for _, tf := range cfg.Tracked {
		items[tf.Item] = tf
	}
	require.Contains(t, items, "zshrc")
	assert.Equal(t, "~/.zshrc", items["zshrc"].Path)
	assert.Equal(t, "zsh/zshrc", items["zshrc"].Source)
}

func TestLoadUserFileOverridesDefaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(env.Paths.ConfigFilePath(), `
[core]
repo = "git@example.com:u/dotfiles.git"

[[tracked]]
item = "kitty"
path = "~/.config/kitty/kitty.conf"
source = "kitty/kitty.conf"
`)

	cfg, err := config.Load(env.Paths)
	require.NoError(t, err)

	assert.Equal(t, "git@example.com:u/dotfiles.git", cfg.Core.Repo)
	// A scalar the user didn't set keeps its default.
	assert.Equal(t, "Brewfile", cfg.Core.Brewfile)
	// A user tracked list replaces the default set wholesale.
	require.Len(t, cfg.Tracked, 1)
	assert.Equal(t, "kitty", cfg.Tracked[0].Item)
}

func TestLoadRejectsDuplicateItems(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(env.Paths.ConfigFilePath(), `
[[tracked]]
item = "zshrc"
path = "~/.zshrc"

[[tracked]]
item = "zshrc"
path = "~/other/.zshrc"
`)

	_, err := config.Load(env.Paths)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(env.Paths.ConfigFilePath(), "[core\nrepo=")

	_, err := config.Load(env.Paths)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
