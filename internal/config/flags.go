package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Clipboard  string
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
}

// Register adds the flags to a flag set, usually a cobra command's
// persistent flags.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&f.Clipboard, "clipboard", "", "Path of the copy buffer file")
}

// RegisterViewer adds the window flags.
func (f *Flags) RegisterViewer(fs *pflag.FlagSet) {
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Clipboard != "" {
		cfg.Clipboard.Path = f.Clipboard
	}
	if f.Windowed {
		cfg.Viewer.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Viewer.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Viewer.Height = f.Height
	}
}
