// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirName is the name of the gmhelper configuration directory.
const ConfigDirName = ".gmhelper"

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.yaml"

// ErrNoProjectRoot is returned when .gmhelper/config.yaml is not found.
var ErrNoProjectRoot = errors.New(".gmhelper/config.yaml not found in the current directory or any parent")

// FindRoot walks up from the current working directory until it finds .gmhelper/config.yaml.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds .gmhelper/config.yaml.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(ConfigPath(dir)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// ConfigPath returns the configuration file path under root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigDirName, ConfigFileName)
}
