// Package config handles garden.toml engine configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

const (
	BackendOto       = "oto"
	BackendPortaudio = "portaudio"
)

// Config represents a garden.toml file.
type Config struct {
	SampleRate   int     `toml:"sample-rate"`
	BufferFrames int     `toml:"buffer-frames"`
	Backend      string  `toml:"backend"`
	LogLevel     string  `toml:"log-level"`
	Snapshot     string  `toml:"snapshot"`
	Tables       []Table `toml:"table"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Table preloads a sample file into a named table.
type Table struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SampleRate:   48000,
		BufferFrames: 512,
		Backend:      BackendOto,
		LogLevel:     "info",
	}
}

// Load parses the config file at path. A missing file yields the
// defaults; an empty path also yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("cannot expand %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", expanded, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", expanded, err)
	}
	c.Path = expanded
	if err := c.resolve(); err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	return c, nil
}

// resolve validates the values and expands home directories in paths.
func (c *Config) resolve() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample-rate: %d", c.SampleRate)
	}
	if c.BufferFrames <= 0 {
		return fmt.Errorf("invalid buffer-frames: %d", c.BufferFrames)
	}
	switch c.Backend {
	case BackendOto, BackendPortaudio:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	var err error
	if c.Snapshot != "" {
		if c.Snapshot, err = homedir.Expand(c.Snapshot); err != nil {
			return err
		}
	}
	seen := make(map[string]bool)
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Name == "" || t.File == "" {
			return fmt.Errorf("table %d: name and file are required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("table %s defined twice", t.Name)
		}
		seen[t.Name] = true
		if t.File, err = homedir.Expand(t.File); err != nil {
			return err
		}
	}
	return nil
}
