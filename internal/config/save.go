package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# meshops configuration. Operator parameters given on the command line\n" +
	"# or through a key binding override the tools defaults.\n"

// DefaultPath is where Save writes and where Load looks last.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := c.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Write encodes the config as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
