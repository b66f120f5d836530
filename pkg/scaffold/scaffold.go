// Package scaffold creates the on-disk skeletons dotstash manages:
// the AI prompts directory tree and the user configuration file.
package scaffold

import (
	"path/filepath"

	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Categories are the prompt subdirectories created under prompts/.
var Categories = []string{"coding", "writing", "review"}

const readmeContent = `# Prompts

Reusable AI prompts, one file per prompt, grouped by category:

- coding/   implementation and debugging prompts
- writing/  docs and prose prompts
- review/   code and text review prompts

Add a new prompt as a markdown file in the right category and list it
in index.toml.
`

const indexContent = `# Prompt index. Each entry names a prompt file relative to this
# directory.

[prompts]
`

// Result reports what the scaffolder created and what it left alone.
type Result struct {
	Created []string
	Skipped []string
}

// Scaffolder creates directory skeletons idempotently.
type Scaffolder struct {
	fs types.FS

	// Force overwrites existing files instead of skipping them.
	Force bool
}

// New creates a Scaffolder.
func New(fsys types.FS) *Scaffolder {
	return &Scaffolder{fs: fsys}
}

// Prompts creates the prompts tree under root: one directory per
// category plus a README and a TOML index. Existing files are skipped
// unless Force is set; rerunning is a no-op.
func (s *Scaffolder) Prompts(root string) (*Result, error) {
	logger := logging.GetLogger("scaffold")
	result := &Result{}

	promptsDir := filepath.Join(root, "prompts")
	for _, category := range Categories {
		dir := filepath.Join(promptsDir, category)
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return result, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
		result.Created = append(result.Created, dir)
	}

	files := map[string]string{
		filepath.Join(promptsDir, "README.md"):  readmeContent,
		filepath.Join(promptsDir, "index.toml"): indexContent,
	}
	for path, content := range files {
		created, err := s.writeFile(path, content)
		if err != nil {
			return result, err
		}
		if created {
			result.Created = append(result.Created, path)
		} else {
			result.Skipped = append(result.Skipped, path)
		}
	}

	logger.Info().Str("root", promptsDir).Int("created", len(result.Created)).
		Msg("Prompts directory scaffolded")
	return result, nil
}

// Config writes the default configuration to path so the user has a
// file to edit. An existing file is never overwritten without Force.
func (s *Scaffolder) Config(path string) (bool, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", path)
	}
	return s.writeFile(path, config.GetDefaultConfigContent())
}

// writeFile writes content to path, honoring Force. Returns whether
// the file was written.
func (s *Scaffolder) writeFile(path, content string) (bool, error) {
	if !s.Force {
		if _, err := s.fs.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := s.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
	}
	return true, nil
}
