package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstash/pkg/testutil"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// runCommand executes the CLI with the given args and returns its
// combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListWithNoBackupsSucceeds(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out, err := runCommand(t, "list")
	require.NoError(t, err, "an empty manifest is not an error")
	assert.Contains(t, out, "No backup runs recorded.")
}

func TestBackupThenListRoundTrip(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.HomeDir, ".zshrc"), "export EDITOR=vim\n")

	out, err := runCommand(t, "backup")
	require.NoError(t, err)
	assert.Contains(t, out, ".zshrc")

	out, err = runCommand(t, "list", "--output", "json")
	require.NoError(t, err)

	var runs []types.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	require.Len(t, runs[0].Entries, 1)
	assert.Equal(t, "zshrc", runs[0].Entries[0].Item)
}

func TestBackupSkipsWhenNothingTracked(t *testing.T) {
	testutil.NewTestEnvironment(t)

	// No tracked file exists in the fresh home.
	_, err := runCommand(t, "backup")
	require.NoError(t, err)

	out, err := runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backup runs recorded.")
}

func TestRestoreRoundTripThroughCLI(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	live := filepath.Join(env.HomeDir, ".zshrc")
	env.WriteFile(live, "original\n")

	_, err := runCommand(t, "backup")
	require.NoError(t, err)

	env.WriteFile(live, "mutated\n")

	_, err = runCommand(t, "restore")
	require.NoError(t, err)
	assert.Equal(t, "original\n", env.ReadFile(live))
}

func TestRestoreUnknownTimestampFails(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, err := runCommand(t, "restore", "19990101_000000")
	require.Error(t, err)
}

func TestCleanupNeedsTimestampOrOrphans(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, err := runCommand(t, "cleanup")
	require.Error(t, err)
}

func TestCleanupDeletesRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.HomeDir, ".zshrc"), "content\n")

	_, err := runCommand(t, "backup")
	require.NoError(t, err)

	out, err := runCommand(t, "list", "--output", "json")
	require.NoError(t, err)
	var runs []types.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)

	_, err = runCommand(t, "cleanup", "--yes", runs[0].Timestamp)
	require.NoError(t, err)

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backup runs recorded.")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotstash version")
}

func TestListRejectsUnknownFormat(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, err := runCommand(t, "list", "--output", "xml")
	require.Error(t, err)
}

func TestDryRunFlagScopedToInstall(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	live := filepath.Join(env.HomeDir, ".zshrc")
	env.WriteFile(live, "content\n")

	// Commands that perform destructive work without a dry-run mode
	// must reject the flag rather than silently ignore it.
	for _, args := range [][]string{
		{"restore", "--dry-run"},
		{"cleanup", "--dry-run"},
		{"uninstall", "--dry-run"},
	} {
		_, err := runCommand(t, args...)
		require.Error(t, err, "%v must reject --dry-run", args)
		assert.Contains(t, err.Error(), "unknown flag")
	}

	out, err := runCommand(t, "install", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")

	// The dry run left the live file alone.
	info, err := os.Lstat(live)
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink)
	assert.Equal(t, "content\n", env.ReadFile(live))
}

func TestForceFlagScopedToScaffold(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, err := runCommand(t, "backup", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")

	_, err = runCommand(t, "scaffold", "--force")
	require.NoError(t, err)
}
