// Package config loads session settings from TOML with environment fallbacks.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/cellterm/terminal"
)

// DefaultDevice is opened when no device is configured
const DefaultDevice = "/dev/tty"

// Config selects the terminal description, device and session behaviour
type Config struct {
	// Term is the terminal name looked up in the terminfo directories.
	// Empty falls back to $TERM.
	Term string `toml:"term"`

	// Terminfo is an explicit compiled description; overrides Term lookup
	Terminfo string `toml:"terminfo"`

	Device         string `toml:"device"`
	ResizeSignal   bool   `toml:"resize_signal"`
	RetainOnResize bool   `toml:"retain_on_resize"`

	// PollTimeoutMs bounds each Poll; negative waits indefinitely
	PollTimeoutMs int `toml:"poll_timeout_ms"`

	Debug   bool   `toml:"debug"`
	LogFile string `toml:"log_file"`
}

// Default returns the built-in settings
func Default() *Config {
	cfg := &Config{
		Device:         DefaultDevice,
		ResizeSignal:   true,
		RetainOnResize: true,
		PollTimeoutMs:  100,
		LogFile:        "cellterm.log",
	}
	cfg.applyEnv()
	return cfg
}

// Load decodes path over the defaults. An empty path returns the defaults.
// Keys not understood by Config are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Term == "" {
		c.Term = os.Getenv("TERM")
	}
}

// Validate rejects settings a session cannot run with
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("device must not be empty")
	}
	if c.Term == "" && c.Terminfo == "" {
		return errors.New("no terminal name: set term or $TERM")
	}
	if c.Debug && c.LogFile == "" {
		return errors.New("debug requires log_file")
	}
	return nil
}

// SessionOptions converts the settings into terminal session options
func (c *Config) SessionOptions() terminal.Options {
	return terminal.Options{RetainOnResize: c.RetainOnResize}
}
