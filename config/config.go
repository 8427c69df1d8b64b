// Package config loads the optional flattenjs.toml project file that
// overrides the CLI's default input/output paths.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config mirrors flattenjs.toml.
type Config struct {
	Build struct {
		Input  string `toml:"input"`  // defaults to "test.js"
		Output string `toml:"output"` // defaults to "test.out.js"
	} `toml:"build"`
}

// Default returns the configuration used when no flattenjs.toml is present.
func Default() *Config {
	c := &Config{}
	c.Build.Input = "test.js"
	c.Build.Output = "test.out.js"

	return c
}

// Load reads path, falling back to Default for any field left unset.
func Load(path string) (*Config, error) {
	c := Default()

	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return c, nil
}
