// Package gitprofile switches the global git identity between
// declared profiles: user.name, user.email and the SSH key used for
// pushes. Profiles live in ~/.config/dotstash/profiles.toml.
package gitprofile

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Profile is one git identity.
type Profile struct {
	Name      string `toml:"name"`
	UserName  string `toml:"user_name"`
	UserEmail string `toml:"user_email"`
	SSHKey    string `toml:"ssh_key"`
	GHUser    string `toml:"gh_user"`
}

// profilesFile is the on-disk shape of profiles.toml.
type profilesFile struct {
	Profile []Profile `toml:"profile"`
}

// Identity is the currently active global git identity.
type Identity struct {
	UserName  string
	UserEmail string
}

// SwitchResult reports what a profile switch changed.
type SwitchResult struct {
	Profile Profile
	// Reminder is a follow-up step dotstash cannot do itself, e.g.
	// switching the GitHub CLI account.
	Reminder string
}

// Switcher reads the profiles file and drives git config.
type Switcher struct {
	fs    types.FS
	paths paths.Paths

	// runGit executes git with the given arguments and returns its
	// trimmed stdout; tests substitute this.
	runGit func(args ...string) (string, error)
}

// New creates a Switcher.
func New(fsys types.FS, p paths.Paths) *Switcher {
	return &Switcher{
		fs:    fsys,
		paths: p,
		runGit: func(args ...string) (string, error) {
			out, err := exec.Command("git", args...).Output()
			if err != nil {
				return "", errors.Wrapf(err, errors.ErrCommandFailed,
					"git %s failed", strings.Join(args, " "))
			}
			return strings.TrimSpace(string(out)), nil
		},
	}
}

// List returns the declared profiles.
func (s *Switcher) List() ([]Profile, error) {
	path := s.paths.ProfilesFilePath()
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrProfileNotFound,
				"no profiles file at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	var pf profilesFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileInvalid,
			"profiles file %s is not valid TOML", path)
	}
	for _, p := range pf.Profile {
		if p.Name == "" || p.UserEmail == "" {
			return nil, errors.Newf(errors.ErrProfileInvalid,
				"profile missing name or user_email in %s", path)
		}
	}
	return pf.Profile, nil
}

// Get returns the profile with the given name.
func (s *Switcher) Get(name string) (Profile, error) {
	profiles, err := s.List()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, errors.Newf(errors.ErrProfileNotFound, "no profile named %q", name)
}

// Current reads the active global identity from git config.
func (s *Switcher) Current() (Identity, error) {
	name, err := s.runGit("config", "--global", "--get", "user.name")
	if err != nil {
		// Unset keys make git exit non-zero; treat as empty.
		name = ""
	}
	email, err := s.runGit("config", "--global", "--get", "user.email")
	if err != nil {
		email = ""
	}
	return Identity{UserName: name, UserEmail: email}, nil
}

// Switch makes the named profile the global git identity. The SSH key
// is wired through core.sshCommand so all repos pick it up without
// per-host ssh config edits.
func (s *Switcher) Switch(name string) (*SwitchResult, error) {
	logger := logging.GetLogger("gitprofile")

	profile, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.runGit("config", "--global", "user.name", profile.UserName); err != nil {
		return nil, err
	}
	if _, err := s.runGit("config", "--global", "user.email", profile.UserEmail); err != nil {
		return nil, err
	}

	if profile.SSHKey != "" {
		key := s.paths.ExpandHome(profile.SSHKey)
		sshCmd := fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes", key)
		if _, err := s.runGit("config", "--global", "core.sshCommand", sshCmd); err != nil {
			return nil, err
		}
	} else {
		// Profile carries no key; drop any override from a previous
		// switch. git exits non-zero when the key is absent already.
		_, _ = s.runGit("config", "--global", "--unset", "core.sshCommand")
	}

	result := &SwitchResult{Profile: profile}
	if profile.GHUser != "" {
		result.Reminder = fmt.Sprintf("run `gh auth switch --user %s` to match the GitHub CLI account", profile.GHUser)
	}

	logger.Info().Str("profile", profile.Name).Str("email", profile.UserEmail).
		Msg("Switched git profile")
	return result, nil
}
