package gitprofile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/testutil"
)

const profilesTOML = `
[[profile]]
name = "personal"
user_name = "Jane Doe"
user_email = "jane@example.com"
ssh_key = "~/.ssh/id_personal"
gh_user = "janedoe"

[[profile]]
name = "work"
user_name = "Jane Doe"
user_email = "jane@corp.example.com"
`

// newTestSwitcher wires a Switcher with git calls recorded instead of
// executed.
func newTestSwitcher(t *testing.T, env *testutil.TestEnvironment) (*Switcher, *[][]string) {
	t.Helper()
	s := New(env.FS, env.Paths)

	var calls [][]string
	s.runGit = func(args ...string) (string, error) {
		calls = append(calls, args)
		return "", nil
	}
	return s, &calls
}

func writeProfiles(t *testing.T, env *testutil.TestEnvironment, content string) {
	t.Helper()
	env.WriteFile(env.Paths.ProfilesFilePath(), content)
}

func TestListProfiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, profilesTOML)

	s, _ := newTestSwitcher(t, env)
	profiles, err := s.List()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "personal", profiles[0].Name)
	assert.Equal(t, "jane@corp.example.com", profiles[1].UserEmail)
}

func TestListNoProfilesFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	s, _ := newTestSwitcher(t, env)
	_, err := s.List()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestListInvalidTOML(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, "[[profile]\nname=")

	s, _ := newTestSwitcher(t, env)
	_, err := s.List()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileInvalid))
}

func TestListRejectsIncompleteProfile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, "[[profile]]\nname = \"broken\"\n")

	s, _ := newTestSwitcher(t, env)
	_, err := s.List()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileInvalid))
}

func TestSwitchSetsIdentityAndKey(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, profilesTOML)

	s, calls := newTestSwitcher(t, env)
	result, err := s.Switch("personal")
	require.NoError(t, err)
	assert.Equal(t, "personal", result.Profile.Name)
	assert.Contains(t, result.Reminder, "gh auth switch --user janedoe")

	var flat []string
	for _, call := range *calls {
		flat = append(flat, strings.Join(call, " "))
	}
	assert.Contains(t, flat, "config --global user.name Jane Doe")
	assert.Contains(t, flat, "config --global user.email jane@example.com")

	// The SSH key path is expanded against the test home.
	found := false
	for _, call := range flat {
		if strings.HasPrefix(call, "config --global core.sshCommand ssh -i "+env.HomeDir) {
			found = true
		}
	}
	assert.True(t, found, "core.sshCommand should point at the expanded key path, got %v", flat)
}

func TestSwitchWithoutKeyUnsetsOverride(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, profilesTOML)

	s, calls := newTestSwitcher(t, env)
	result, err := s.Switch("work")
	require.NoError(t, err)
	assert.Empty(t, result.Reminder)

	var flat []string
	for _, call := range *calls {
		flat = append(flat, strings.Join(call, " "))
	}
	assert.Contains(t, flat, "config --global --unset core.sshCommand")
}

func TestSwitchUnknownProfile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeProfiles(t, env, profilesTOML)

	s, _ := newTestSwitcher(t, env)
	_, err := s.Switch("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestCurrentReadsGitConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	s := New(env.FS, env.Paths)
	s.runGit = func(args ...string) (string, error) {
		switch args[len(args)-1] {
		case "user.name":
			return "Jane Doe", nil
		case "user.email":
			return "jane@example.com", nil
		}
		return "", nil
	}

	id, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", id.UserName)
	assert.Equal(t, "jane@example.com", id.UserEmail)
}
