// Package config loads the optional .repopick.yml from the repository root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the repository root.
const FileName = ".repopick.yml"

// Config holds per-repository defaults. Flags override anything set here.
type Config struct {
	// Output mirrors the --output flag: "-" for stdout, a file path, or
	// empty for the clipboard.
	Output string `yaml:"output"`
	// TokenEstimator is "simple" or "tiktoken".
	TokenEstimator string `yaml:"token_estimator"`
}

// Load reads the config from the repository root. A missing file yields the
// zero config; a malformed file is an error.
func Load(root string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}
