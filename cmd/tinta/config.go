package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// projectConfig is the optional `tinta.yaml` project file: module
// search roots and default library flags, per SPEC_FULL.md §2. Parsed
// with gopkg.in/yaml.v3, the same library the teacher reaches for in
// its own config/schema plumbing (core/types/jsonschema.go,
// core/types/validation.go), generalized here to a plain struct since
// tinta has no decorator schema to validate against.
type projectConfig struct {
	// Roots lists additional directories user modules are resolved
	// against, after the importing file's own directory.
	Roots []string `yaml:"roots"`
	// NoColor forces console output off regardless of the NO_COLOR
	// environment variable (nil leaves the environment's say final).
	NoColor *bool `yaml:"no_color"`
	// CacheDir overrides the default on-disk bytecode cache location.
	CacheDir string `yaml:"cache_dir"`
}

// loadConfig reads the tinta.yaml file at path, returning a zero-value config
// (not an error) if the file doesn't exist — the config is entirely
// optional, per spec.md's non-goal of a formal module-loader beyond
// basic path resolution.
func loadConfig(path string) (*projectConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &projectConfig{}, nil
		}
		return nil, err
	}
	var cfg projectConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
