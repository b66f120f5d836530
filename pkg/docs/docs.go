// Package docs lists and renders the markdown best-practices notes
// shipped inside the dotfiles repo.
package docs

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Viewer serves the markdown docs under one directory tree.
type Viewer struct {
	fs  types.FS
	dir string
}

// New creates a Viewer over the docs directory.
func New(fsys types.FS, dir string) *Viewer {
	return &Viewer{fs: fsys, dir: dir}
}

// Topics returns the available doc names, relative to the docs dir
// and without the .md extension, sorted.
func (v *Viewer) Topics() ([]string, error) {
	var topics []string
	if err := v.walk(v.dir, "", &topics); err != nil {
		return nil, err
	}
	sort.Strings(topics)
	return topics, nil
}

func (v *Viewer) walk(dir, prefix string, topics *[]string) error {
	entries, err := v.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "docs directory %s", dir)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if err := v.walk(filepath.Join(dir, name), filepath.Join(prefix, name), topics); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(name, ".md") {
			*topics = append(*topics, filepath.Join(prefix, strings.TrimSuffix(name, ".md")))
		}
	}
	return nil
}

// Render returns the topic's content. With colored set, markdown is
// rendered for the terminal via glamour; otherwise (piped output) the
// raw markdown passes through.
func (v *Viewer) Render(topic string, colored bool) (string, error) {
	path := filepath.Join(v.dir, topic+".md")
	data, err := v.fs.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "no doc topic %q", topic)
	}
	content := string(data)

	if !colored {
		return content, nil
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		// Fall back to plain text rather than failing the command.
		return content, nil
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content, nil
	}
	return rendered, nil
}
