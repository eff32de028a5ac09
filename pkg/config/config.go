package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "einah.yaml"

// Config is the optional einah.yaml file. Command-line flags take precedence
// over anything set here.
type Config struct {
	// Seed makes random reproducible. Zero means seed from the clock.
	Seed uint64 `yaml:"seed"`

	MaxCallDepth int    `yaml:"max_call_depth"`
	HistoryFile  string `yaml:"history_file"`
	Debug        bool   `yaml:"debug"`
}

// Load reads the config at path. A missing file is not an error when
// optional is set, in which case the zero Config is returned.
func Load(path string, optional bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxCallDepth < 0 {
		return nil, fmt.Errorf("max_call_depth must not be negative, got %d", cfg.MaxCallDepth)
	}

	return &cfg, nil
}

// HistoryPath returns where the REPL keeps its history, defaulting to a file
// in the user's home directory.
func (c *Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".einah_history")
}
