// Package config handles meshops configuration loading and management.
package config

import "github.com/Faultbox/meshops/internal/logger"

// Config holds all meshops settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Tools     ToolsConfig     `yaml:"tools"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Viewer    ViewerConfig    `yaml:"viewer"`
}

// ToolsConfig holds operator defaults. Parameters given explicitly to an
// operator take precedence.
type ToolsConfig struct {
	MergeDistance      float32 `yaml:"merge_distance"`
	MirrorAxis         string  `yaml:"mirror_axis"`
	MirrorPivot        string  `yaml:"mirror_pivot"`
	MirrorScope        string  `yaml:"mirror_scope"`
	MirrorDeleteTarget string  `yaml:"mirror_delete_target"`
	RadialCount        int     `yaml:"radial_count"`
	ScatterSeed        int64   `yaml:"scatter_seed"`
	PolygonPivot       string  `yaml:"polygon_pivot"`
	PolygonAlign       string  `yaml:"polygon_align"`
}

// ClipboardConfig holds the copy buffer location.
type ClipboardConfig struct {
	Path string `yaml:"path"` // Empty means the system temp directory
}

// ViewerConfig holds display settings for meshview.
type ViewerConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"` // Multisample antialiasing, 0 disables it
	FOV        float32    `yaml:"fov"`     // Vertical field of view in degrees
	Background [3]float32 `yaml:"background,flow"`

	// Keymap adds to or overrides the built-in key bindings, keyed by
	// combos such as "Ctrl+Shift+M".
	Keymap map[string]KeyBinding `yaml:"keymap,omitempty"`
}

// KeyBinding runs an operator, opens a menu or triggers a viewer action.
type KeyBinding struct {
	Operator string         `yaml:"operator,omitempty"`
	Params   map[string]any `yaml:"params,omitempty"`
	Menu     string         `yaml:"menu,omitempty"`
	Action   string         `yaml:"action,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	// Format of the log file, "console" or "json".
	Format string `yaml:"format"`
}

// Options converts the settings for logger.Setup. Entries always go to
// stderr as well.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.Options{Level: l.Level, Format: l.Format, Console: true}
	if l.LogFile != "" {
		opts.File = logger.DefaultFileConfig(l.LogFile)
	}
	return opts
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			MergeDistance:      0.0001,
			MirrorAxis:         "X",
			MirrorPivot:        "ORIGIN",
			MirrorScope:        "ISLAND",
			MirrorDeleteTarget: "ISLAND",
			RadialCount:        4,
			ScatterSeed:        1,
			PolygonPivot:       "FOCAL",
			PolygonAlign:       "AUTO",
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			FOV:        45,
			Background: [3]float32{0.16, 0.16, 0.18},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}
