// Package config loads the dotstash configuration: embedded defaults
// merged with the user's dotstash.toml. The result is an explicit
// Config struct threaded into every component constructor; nothing
// below cmd/ reads the environment directly.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/paths"
)

// TrackedFile is one dotfile under dotstash management.
type TrackedFile struct {
	// Item is the logical name used in the manifest, e.g. "zshrc"
	Item string `koanf:"item"`

	// Path is the live location, usually under $HOME (~/ is expanded
	// by pkg/paths at use time)
	Path string `koanf:"path"`

	// Source is the repo-relative file the installer links Path to
	Source string `koanf:"source"`
}

// Core holds the scalar settings.
type Core struct {
	Repo     string `koanf:"repo"`
	Brewfile string `koanf:"brewfile"`
	DocsDir  string `koanf:"docs_dir"`
}

// Config is the fully merged configuration.
type Config struct {
	Core    Core          `koanf:"core"`
	Tracked []TrackedFile `koanf:"tracked"`
}

// Load merges embedded defaults with the user config file, if present.
func Load(p paths.Paths) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User config, if it exists
	cfgPath := p.ConfigFilePath()
	if _, err := os.Stat(cfgPath); err == nil {
		if err := k.Load(file.Provider(cfgPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", cfgPath)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	seen := make(map[string]string, len(cfg.Tracked))
	for _, tf := range cfg.Tracked {
		if tf.Item == "" || tf.Path == "" {
			return errors.Newf(errors.ErrConfigLoad,
				"tracked entry missing item or path (item=%q path=%q)", tf.Item, tf.Path)
		}
		if prev, ok := seen[tf.Item]; ok {
			return errors.Newf(errors.ErrConfigLoad,
				"duplicate tracked item %q (paths %s and %s)", tf.Item, prev, tf.Path)
		}
		seen[tf.Item] = tf.Path
	}
	return nil
}
