// Package config loads the REPL's optional runtime settings from a YAML
// file alongside the database, the way a small embedded tool's config
// usually looks: a handful of fields, sane zero-value defaults, and no
// config file required to run at all.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds settings that shape the CLI/REPL but never the on-disk
// format itself — the wire format in internal/storage is fixed
// regardless of configuration.
type Config struct {
	// Prompt is the string shown before each REPL line.
	Prompt string `yaml:"prompt"`
	// Echo, when true, prints each command back before executing it.
	Echo bool `yaml:"echo"`
	// Lock, when true, takes an OS-level exclusive advisory lock on the
	// database file for the process's lifetime (§5: "implementers MAY
	// add OS-level exclusive locks").
	Lock bool `yaml:"lock"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{Prompt: "isentadb> ", Echo: false, Lock: false}
}

// Load reads a YAML config file at path. A missing file is not an
// error — it yields the defaults, since running without a config file
// is the common case for a single-file embedded tool.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
