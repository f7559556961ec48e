// Package config loads the agent's YAML options file.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/sven-vanh/lieferlisten-agent/extractor"
)

// Config holds the run options an operator may override. All fields
// are optional; the zero value behaves like Default().
type Config struct {
	// AnchorPattern is the regular expression used to find anchor ids
	// in page text. Empty means the built-in default.
	AnchorPattern string `yaml:"anchor_pattern,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFile is the path of the persistent log. Empty disables the
	// file and logs to the console only.
	LogFile string `yaml:"log_file,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{LogLevel: "info"}
}

// Load reads and parses the YAML file at path. Defaults fill fields
// the file leaves empty.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Pattern compiles the anchor pattern, falling back to the built-in
// default when none is configured.
func (c Config) Pattern() (*regexp.Regexp, error) {
	if c.AnchorPattern == "" {
		return extractor.DefaultAnchorPattern, nil
	}
	re, err := regexp.Compile(c.AnchorPattern)
	if err != nil {
		return nil, fmt.Errorf("anchor pattern %q: %w", c.AnchorPattern, err)
	}
	return re, nil
}
