package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the configuration for a scrub run. It is assembled once by the
// CLI (file values plus flag overrides), validated, and never mutated
// afterwards, so it is safe to share across recursive calls.
type Config struct {
	Clobber  ClobberConfig  `toml:"clobber"`
	Preserve PreserveConfig `toml:"preserve"`

	// Simulate logs intended deletions without touching the filesystem.
	Simulate bool `toml:"simulate"`
	// Verbose enables debug-level diagnostics.
	Verbose bool `toml:"verbose"`
}

type ClobberConfig struct {
	// Extensions to delete, without the leading dot. Matched exactly and
	// case-sensitively against the substring after the last dot.
	Extensions []string `toml:"extensions"`
	// Names to delete, matched exactly against the basename.
	Names []string `toml:"names"`
}

type PreserveConfig struct {
	// Hidden skips dot-directories entirely (no descent, no removal).
	Hidden bool `toml:"hidden"`
	// Special keeps non-regular, non-directory entries (devices, pipes,
	// links, sockets) even when their name matches a clobber rule.
	Special bool `toml:"special"`
}

func DefaultConfig() *Config {
	return &Config{}
}

// Load reads the config file, falling back to $XDG_CONFIG_HOME/scrub/config.toml
// or ~/.config/scrub/config.toml. A missing file at the default location is
// not an error; scrub runs fine on flags alone. A missing file at an
// explicitly requested path is.
func Load(path string) (*Config, error) {
	useDefault := path == ""
	if useDefault {
		path = DefaultConfigPath()
	}
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if useDefault && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the clobber sets. Entries must be bare basenames or bare
// extensions; a leading dot on an extension would make it unmatchable
// (extensions are compared without the dot), so it is rejected rather than
// silently ignored.
func (c *Config) Validate() error {
	for _, ext := range c.Clobber.Extensions {
		if ext == "" {
			return errors.New("clobber extension must not be empty")
		}
		if strings.HasPrefix(ext, ".") {
			return fmt.Errorf("clobber extension %q must not include the leading dot", ext)
		}
		if strings.Contains(ext, "/") {
			return fmt.Errorf("clobber extension %q must not contain a path separator", ext)
		}
	}

	for _, name := range c.Clobber.Names {
		if name == "" || name == "." || name == ".." {
			return fmt.Errorf("invalid clobber name %q", name)
		}
		if strings.Contains(name, "/") {
			return fmt.Errorf("clobber name %q must be a basename, not a path", name)
		}
	}

	return nil
}

func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	path = os.ExpandEnv(path)
	return path
}

func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrub", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scrub", "config.toml")
}
