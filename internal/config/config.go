// Package config loads optional per-project settings from a
// `.minicc.yaml` file, letting a repository pin pipeline behavior (strict
// mode, default output directory, assembly comments) without repeating
// flags on every CLI invocation.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk shape of `.minicc.yaml`. Every field has a zero
// value that matches the CLI's own default, so a missing file or a
// partially-specified one behaves exactly like passing no flags at all.
type Config struct {
	// Strict mirrors the pipeline's strict-mode policy (spec §7): abort on
	// the first diagnostic instead of accumulating and continuing.
	Strict bool `yaml:"strict"`

	// EmitComments adds comment lines marking the bootstrap steps to the
	// generated assembly (no source-line annotations).
	EmitComments bool `yaml:"emitComments"`

	// OutDir is the default directory `compile` writes assembly into when
	// no explicit output path is given.
	OutDir string `yaml:"outDir"`
}

// Load reads and parses path. A missing file is not an error — it
// returns the zero Config, matching this tool's all-flags-optional
// philosophy.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is the conventional config filename consulted at the
// current working directory when no --config flag is given.
const DefaultPath = ".minicc.yaml"
