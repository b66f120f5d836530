package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstash/pkg/filesystem"
	"github.com/arthur-debert/dotstash/pkg/scaffold"
)

func TestPromptsCreatesTree(t *testing.T) {
	root := t.TempDir()
	sc := scaffold.New(filesystem.NewOS())

	result, err := sc.Prompts(root)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Created)

	for _, category := range scaffold.Categories {
		info, err := os.Stat(filepath.Join(root, "prompts", category))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	_, err = os.Stat(filepath.Join(root, "prompts", "README.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "prompts", "index.toml"))
	assert.NoError(t, err)
}

func TestPromptsKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	sc := scaffold.New(filesystem.NewOS())

	_, err := sc.Prompts(root)
	require.NoError(t, err)

	readme := filepath.Join(root, "prompts", "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("my own notes\n"), 0644))

	result, err := sc.Prompts(root)
	require.NoError(t, err)
	assert.Contains(t, result.Skipped, readme)

	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Equal(t, "my own notes\n", string(data))
}

func TestPromptsForceOverwrites(t *testing.T) {
	root := t.TempDir()
	sc := scaffold.New(filesystem.NewOS())

	_, err := sc.Prompts(root)
	require.NoError(t, err)

	readme := filepath.Join(root, "prompts", "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("my own notes\n"), 0644))

	sc.Force = true
	_, err = sc.Prompts(root)
	require.NoError(t, err)

	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.NotEqual(t, "my own notes\n", string(data))
}

func TestConfigWritesStarterOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "dotstash.toml")
	sc := scaffold.New(filesystem.NewOS())

	written, err := sc.Config(path)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[tracked]]")

	written, err = sc.Config(path)
	require.NoError(t, err)
	assert.False(t, written, "existing config must not be overwritten")
}
