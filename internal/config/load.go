package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	// Explicit path takes priority
	var configPath string
	if flags != nil {
		configPath = flags.ConfigPath
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	flags.apply(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./meshops.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "meshops")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "meshops")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "meshops")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "meshops")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects settings no operator can run with.
func (c *Config) Validate() error {
	if c.Tools.MergeDistance < 0 {
		return fmt.Errorf("tools.merge_distance must not be negative, got %g", c.Tools.MergeDistance)
	}
	if c.Tools.RadialCount < 1 {
		return fmt.Errorf("tools.radial_count must be at least 1, got %d", c.Tools.RadialCount)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Viewer.Samples < 0 {
		return fmt.Errorf("viewer.samples must not be negative, got %d", c.Viewer.Samples)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	return nil
}
