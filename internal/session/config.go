package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name searched for by FindConfig.
const ConfigFileName = "mirror.toml"

// Config is the decoded content of mirror.toml.
type Config struct {
	Path    string        `toml:"-"`
	Codegen CodegenConfig `toml:"codegen"`
	Lower   LowerConfig   `toml:"lower"`
}

// CodegenConfig is the [codegen] table.
type CodegenConfig struct {
	ForceOverflowChecks Tristate `toml:"force-overflow-checks"`
	DebugAssertions     bool     `toml:"debug-assertions"`
	Target              string   `toml:"target"`
}

// LowerConfig is the [lower] table.
type LowerConfig struct {
	Jobs    int    `toml:"jobs"`
	DepsOut string `toml:"deps-out"`
}

// Options converts the [codegen] table.
func (c Config) Options() Options {
	return Options{
		ForceOverflowChecks: c.Codegen.ForceOverflowChecks,
		DebugAssertions:     c.Codegen.DebugAssertions,
		Target:              c.Codegen.Target,
	}
}

// FindConfig walks up from startDir looking for mirror.toml.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes mirror.toml at path. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Lower.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [lower].jobs must not be negative", path)
	}
	if _, err := cfg.Options().ResolveTarget(); err != nil {
		return Config{}, fmt.Errorf("%s: [codegen].target: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds and loads mirror.toml starting at startDir. A missing file
// yields the zero Config and ok == false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, found, err := FindConfig(startDir)
	if err != nil || !found {
		return Config{}, false, err
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}
