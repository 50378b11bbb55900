package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gmhelper/gmhelper/internal/errors"
)

// Environment variables that override the config file.
const (
	EnvAseprite     = "GMHELPER_ASEPRITE"
	EnvAsepritePath = "ASEPRITE_PATH"
	EnvOutputDir    = "GMHELPER_OUTPUT_DIR"
	EnvProject      = "GMHELPER_PROJECT"
	EnvTimeout      = "GMHELPER_TIMEOUT"
	EnvFile         = "GMHELPER_ENV_FILE"
)

// LoadEnvFile loads a .env file into the process environment if it exists.
// An empty path uses $GMHELPER_ENV_FILE, then ".env". Variables already set
// are not overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Configf("loading %s: %v", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment.
func ApplyEnv(cfg *Config) error {
	bin := os.Getenv(EnvAseprite)
	if bin == "" {
		bin = os.Getenv(EnvAsepritePath)
	}
	if bin != "" {
		cfg.Aseprite.Path = bin
	}

	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Export.OutputDir = v
	}
	if v := os.Getenv(EnvProject); v != "" {
		cfg.GameMaker.Project = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Configf("invalid %s %q: %v", EnvTimeout, v, err)
		}
		cfg.Aseprite.Timeout = Duration(d)
	}
	return nil
}

// Resolve loads the configuration for a run: the file at path when it is
// set, otherwise defaults, with environment overrides either way.
func Resolve(path string) (*Config, []string, error) {
	if path != "" {
		return LoadAndValidate(path)
	}

	cfg := &Config{}
	if err := ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, nil, errors.Configf("%v", err)
	}
	return cfg, nil, nil
}

// Describe returns a one-line summary of the effective settings for verbose
// output.
func Describe(cfg *Config) string {
	return fmt.Sprintf("aseprite=%s timeout=%s on_error=%s split=%t",
		cfg.Aseprite.Path, cfg.Aseprite.Timeout, cfg.Export.OnError, cfg.SplitEnabled())
}
