package types

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimestampSortsChronologically(t *testing.T) {
	earlier := NewTimestamp(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	later := NewTimestamp(time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, "20250101_120000", earlier)
	assert.Equal(t, "20250102_093000", later)
	assert.Less(t, earlier, later, "timestamps must sort lexicographically in time order")
}

func TestBackupEntryJSONShape(t *testing.T) {
	entry := BackupEntry{
		Item:         "zshrc",
		OriginalPath: "/home/u/.zshrc",
		BackupPath:   "/home/u/.dotfiles-backup/20250101_120000/.zshrc",
		Timestamp:    "20250101_120000",
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"item": "zshrc",
		"original_path": "/home/u/.zshrc",
		"backup_path": "/home/u/.dotfiles-backup/20250101_120000/.zshrc",
		"timestamp": "20250101_120000"
	}`, string(data))
}

func TestRunResultOk(t *testing.T) {
	r := &RunResult{}
	assert.True(t, r.Ok())

	r.Failed = append(r.Failed, FileResult{Path: "/x", Err: fmt.Errorf("boom")})
	assert.False(t, r.Ok())
}

func TestConfirmerFunc(t *testing.T) {
	asked := ""
	c := ConfirmerFunc(func(q string, def bool) (bool, error) {
		asked = q
		return def, nil
	})

	ok, err := c.Confirm("Proceed?", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Proceed?", asked)

	ok, err = AssumeYes.Confirm("Anything?", false)
	require.NoError(t, err)
	assert.True(t, ok)
}
