package config

import (
	"fmt"
	"regexp"
)

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the semantic rules the schema cannot express, or that must
// hold after environment overrides were applied.
func Validate(cfg *Config) error {
	if cfg.Aseprite.Path == "" {
		return &ValidationError{Field: "aseprite.path", Message: "is required"}
	}
	if cfg.Aseprite.Timeout < 0 {
		return &ValidationError{Field: "aseprite.timeout", Message: "must not be negative"}
	}
	if err := ValidateOnError(cfg.Export.OnError); err != nil {
		return err
	}
	if cfg.Watch.Debounce < 0 {
		return &ValidationError{Field: "watch.debounce", Message: "must not be negative"}
	}
	for _, ext := range cfg.Watch.Extensions {
		if !extensionPattern.MatchString(ext) {
			return &ValidationError{
				Field:   "watch.extensions",
				Message: fmt.Sprintf("%q must look like .aseprite", ext),
			}
		}
	}
	if cfg.Split.GIFDelay < 1 || cfg.Split.GIFDelay > 65535 {
		return &ValidationError{Field: "split.gif_delay", Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidateOnError checks an export.on_error value.
func ValidateOnError(v string) error {
	switch v {
	case "", "abort", "continue":
		return nil
	}
	return &ValidationError{Field: "export.on_error", Message: `must be "abort" or "continue"`}
}
