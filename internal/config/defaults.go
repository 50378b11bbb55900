package config

import "time"

// Default configuration values.
const (
	DefaultAsepritePath = "aseprite"
	DefaultTimeout      = Duration(5 * time.Minute)
	DefaultOnError      = "abort"
	DefaultWatchDir     = "."
	DefaultDebounce     = Duration(300 * time.Millisecond)
	DefaultGIFDelay     = 10 // hundredths of a second
	DefaultFolderRoot   = "Sprites"
)

// DefaultExtensions are the source file extensions the watcher reacts to.
var DefaultExtensions = []string{".aseprite", ".ase"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Aseprite.Path == "" {
		cfg.Aseprite.Path = DefaultAsepritePath
	}
	if cfg.Aseprite.Timeout == 0 {
		cfg.Aseprite.Timeout = DefaultTimeout
	}
	if cfg.Export.OnError == "" {
		cfg.Export.OnError = DefaultOnError
	}
	if cfg.Watch.Directory == "" {
		cfg.Watch.Directory = DefaultWatchDir
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Split.GIFDelay == 0 {
		cfg.Split.GIFDelay = DefaultGIFDelay
	}
	if cfg.GameMaker.FolderRoot == "" {
		cfg.GameMaker.FolderRoot = DefaultFolderRoot
	}
}
