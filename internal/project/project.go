package project

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmhelper/gmhelper/internal/config"
)

// Project is the directory a run works in together with its configuration.
type Project struct {
	Root       string
	ConfigFile string // empty when running on defaults
	Config     *config.Config
	Warnings   []string
}

// Load resolves the configuration for a run. With configPath set, that file
// is loaded and the project root is the directory holding .gmhelper (or the
// file's own directory). Otherwise the root is discovered from the working
// directory, falling back to defaults rooted at the working directory.
func Load(configPath string) (*Project, error) {
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, err
		}
		return LoadFrom(rootOf(abs), abs)
	}

	root, err := FindRoot()
	if stderrors.Is(err, ErrNoProjectRoot) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return LoadFrom(cwd, "")
	}
	if err != nil {
		return nil, err
	}
	return LoadFrom(root, ConfigPath(root))
}

// LoadFrom loads the configuration at configFile (or defaults when empty)
// for the project rooted at root.
func LoadFrom(root, configFile string) (*Project, error) {
	cfg, warnings, err := config.Resolve(configFile)
	if err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
		return nil, err
	}

	return &Project{
		Root:       root,
		ConfigFile: configFile,
		Config:     cfg,
		Warnings:   warnings,
	}, nil
}

// Path resolves a configured path against the project root. Empty and
// absolute paths are returned unchanged.
func (p *Project) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

// rootOf returns the project root for a config file path.
func rootOf(configFile string) string {
	dir := filepath.Dir(configFile)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Dir(dir)
	}
	return dir
}
