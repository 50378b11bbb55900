package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// excludedDirs are never searched for source assets.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"out":          true,
}

// HasExtension reports whether path ends in one of exts, ignoring case.
func HasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory is never searched or watched:
// hidden directories and common build output directories.
func SkipDir(name string) bool {
	return (strings.HasPrefix(name, ".") && name != "." && name != "..") || excludedDirs[name]
}

// DiscoverAssets returns every source asset under dir with one of exts,
// sorted by path.
func DiscoverAssets(dir string, exts []string) ([]string, error) {
	var assets []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if HasExtension(path, exts) {
			assets = append(assets, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(assets)
	return assets, nil
}
