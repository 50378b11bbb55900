// Package config provides configuration loading and validation for
// .gmhelper/config.yaml.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete config.yaml configuration.
type Config struct {
	Aseprite  AsepriteConfig  `yaml:"aseprite"`
	Export    ExportConfig    `yaml:"export"`
	Watch     WatchConfig     `yaml:"watch"`
	Split     SplitConfig     `yaml:"split"`
	GameMaker GameMakerConfig `yaml:"gamemaker"`
}

// AsepriteConfig locates the host program.
type AsepriteConfig struct {
	Path    string   `yaml:"path,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"` // bound on each host call; 0 disables
}

// ExportConfig configures the per-tag exporter.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir,omitempty"` // empty: next to the source file
	OnError   string `yaml:"on_error,omitempty"`   // "abort" or "continue"
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Directory  string   `yaml:"directory,omitempty"`
	Debounce   Duration `yaml:"debounce,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// SplitConfig configures splitting exported sheets into frames.
type SplitConfig struct {
	Enabled  *bool `yaml:"enabled,omitempty"` // default: true
	GIFDelay int   `yaml:"gif_delay,omitempty"`
}

// GameMakerConfig configures importing sprites into a GameMaker project.
type GameMakerConfig struct {
	Project    string `yaml:"project,omitempty"` // .yyp file or its directory; empty disables import
	FolderRoot string `yaml:"folder_root,omitempty"`
}

// SplitEnabled reports whether exported sheets are split.
func (c *Config) SplitEnabled() bool {
	return c.Split.Enabled == nil || *c.Split.Enabled
}

// Duration is a time.Duration written as a Go duration string ("300ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, s)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
