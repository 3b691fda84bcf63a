// Package config handles configuration loading and state directory
// resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Env overrides, checked before the persisted config file.
const (
	StateDirEnv   = "FRS_STATE_DIR"
	ScratchDirEnv = "FRS_SCRATCH_DIR"
)

// Config is the per-user configuration read from config.yaml under the
// config root. All fields are optional.
type Config struct {
	// StateDir overrides where named contexts are stored.
	StateDir string `yaml:"state_dir"`
	// ScratchDir overrides where per-session scratch records are stored.
	ScratchDir string `yaml:"scratch_dir"`
	// Color controls inspect/prompt coloring: "auto" | "always" | "never".
	Color string `yaml:"color"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{Color: "auto"}
}

// ConfigRoot returns the per-user configuration root, ~/.config/frs.
func ConfigRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config.ConfigRoot: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "frs"), nil
}

// Load reads config.yaml from path. A missing file returns Default() with no
// error; missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}
	if v, ok := raw["state_dir"].(string); ok && strings.TrimSpace(v) != "" {
		cfg.StateDir = v
	}
	if v, ok := raw["scratch_dir"].(string); ok && strings.TrimSpace(v) != "" {
		cfg.ScratchDir = v
	}
	if v, ok := raw["color"].(string); ok && v != "" {
		cfg.Color = v
	}
	return cfg, nil
}

// ResolveStateDir returns the directory holding named context records.
// Priority: FRS_STATE_DIR env → config.yaml state_dir → <root>/context.
func ResolveStateDir(cfg *Config) (string, error) {
	if env := os.Getenv(StateDirEnv); env != "" {
		return env, nil
	}
	if cfg != nil && cfg.StateDir != "" {
		return cfg.StateDir, nil
	}
	root, err := ConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "context"), nil
}

// ResolveScratchDir returns the shared temporary directory holding
// per-session scratch records.
// Priority: FRS_SCRATCH_DIR env → config.yaml scratch_dir → os.TempDir().
func ResolveScratchDir(cfg *Config) string {
	if env := os.Getenv(ScratchDirEnv); env != "" {
		return env
	}
	if cfg != nil && cfg.ScratchDir != "" {
		return cfg.ScratchDir
	}
	return os.TempDir()
}
