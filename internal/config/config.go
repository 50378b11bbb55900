package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/schema"
)

// Load reads and parses a config.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults reads a config file and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, checks it against the config schema,
// applies environment overrides and defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Configf("failed to read config file: %v", err)
	}
	return Parse(data)
}

// Parse does what LoadAndValidate does for an in-memory document.
func Parse(data []byte) (*Config, []string, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return nil, nil, errors.Configf("failed to parse config file: %v", err)
	}
	if err := schema.ValidateConfigValue(raw); err != nil {
		return nil, nil, errors.Configf("%v", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, nil, errors.Configf("%v", err)
	}
	warnings := detectUnknownFields(raw)

	if err := ApplyEnv(cfg); err != nil {
		return nil, warnings, err
	}
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, errors.Configf("%v", err)
	}
	return cfg, warnings, nil
}

// decodeRaw decodes a YAML document into generic maps for schema
// validation. An empty document is an empty mapping.
func decodeRaw(data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return raw, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %T", v)
	}
	return m, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
