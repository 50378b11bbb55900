// Package gamemaker imports split sprite frames into a GameMaker project.
package gamemaker

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gmhelper/gmhelper/internal/fsutil"
	"github.com/gmhelper/gmhelper/internal/sheet"
)

// ImportOptions describes one sprite to import.
type ImportOptions struct {
	// Project is the path to the .yyp file.
	Project string
	// SpriteName is the resource name, e.g. "sPlayerIdle".
	SpriteName string
	Frames     []*image.RGBA
	// FolderPath is the IDE folder, e.g. "Sprites/Enemies".
	FolderPath string
	Width      int
	Height     int
}

// ImportResult describes what Import changed.
type ImportResult struct {
	// SpriteFile is the written .yy file.
	SpriteFile string
	Frames     int
	// Replaced is set when an older version of the sprite was removed.
	Replaced bool
	// Preserved is set when collision and origin settings were carried over
	// from the older version.
	Preserved bool
}

// newGUID returns a fresh resource GUID in GameMaker's lowercase form.
func newGUID() string {
	return uuid.NewString()
}

// Import writes opts.Frames as a sprite resource of the project and registers
// it, together with every folder of opts.FolderPath, in the .yyp.
func Import(opts ImportOptions) (*ImportResult, error) {
	if len(opts.Frames) == 0 {
		return nil, fmt.Errorf("sprite %s has no frames", opts.SpriteName)
	}
	if opts.FolderPath == "" {
		return nil, fmt.Errorf("sprite %s has no folder path", opts.SpriteName)
	}

	projectDir := filepath.Dir(opts.Project)
	project, err := readProject(opts.Project)
	if err != nil {
		return nil, err
	}

	if err := ensureFolders(&project, opts.FolderPath); err != nil {
		return nil, err
	}
	if err := replaceResource(&project, opts.SpriteName); err != nil {
		return nil, err
	}

	result := &ImportResult{Frames: len(opts.Frames)}

	spriteDir := filepath.Join(projectDir, "sprites", opts.SpriteName)
	yyPath := filepath.Join(spriteDir, opts.SpriteName+".yy")
	overrides := readOverrides(yyPath, opts.Width, opts.Height)
	if _, err := os.Stat(spriteDir); err == nil {
		if err := os.RemoveAll(spriteDir); err != nil {
			return nil, fmt.Errorf("failed to remove old sprite directory: %w", err)
		}
		result.Replaced = true
	}

	layerGUID := newGUID()
	frameGUIDs := make([]string, len(opts.Frames))
	for i := range frameGUIDs {
		frameGUIDs[i] = newGUID()
	}

	for i, frame := range opts.Frames {
		guid := frameGUIDs[i]
		if err := writePNG(filepath.Join(spriteDir, guid+".png"), frame); err != nil {
			return nil, fmt.Errorf("failed to save frame %d: %w", i, err)
		}
		layerFile := filepath.Join(spriteDir, "layers", guid, layerGUID+".png")
		if err := writePNG(layerFile, frame); err != nil {
			return nil, fmt.Errorf("failed to save layer frame %d: %w", i, err)
		}
	}

	box, ok := sheet.TightBBox(opts.Frames)
	if !ok {
		box = sheet.BBox{Right: opts.Width - 1, Bottom: opts.Height - 1}
	}

	s := NewSprite(opts.SpriteName, opts.Width, opts.Height, frameGUIDs, layerGUID, folderRef(opts.FolderPath), box)
	if overrides != nil {
		overrides.apply(s)
		result.Preserved = true
	}

	data, err := marshalIndent(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sprite %s: %w", opts.SpriteName, err)
	}
	if err := fsutil.WriteFile(yyPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write sprite %s: %w", opts.SpriteName, err)
	}
	result.SpriteFile = yyPath

	data, err = marshalIndent(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", opts.Project, err)
	}
	if err := fsutil.WriteFile(opts.Project, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", opts.Project, err)
	}
	return result, nil
}

// FindProject resolves path to a .yyp file. A .yyp path is returned as is; a
// directory must contain exactly one .yyp.
func FindProject(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("GameMaker project not found: %w", err)
	}
	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(path), ".yyp") {
			return "", fmt.Errorf("%s is not a .yyp file", path)
		}
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.yyp"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no .yyp file in %s", path)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple .yyp files in %s: %s", path, strings.Join(matches, ", "))
	}
}

func readProject(path string) (orderedObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var project orderedObject
	if err := json.Unmarshal([]byte(StripTrailingCommas(string(data))), &project); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return project, nil
}

// readOverrides returns the settings of the existing sprite at yyPath when
// its size matches width and height, nil otherwise.
func readOverrides(yyPath string, width, height int) *spriteOverrides {
	data, err := os.ReadFile(yyPath)
	if err != nil {
		return nil
	}
	var o spriteOverrides
	if err := json.Unmarshal([]byte(StripTrailingCommas(string(data))), &o); err != nil {
		return nil
	}
	if !o.complete() || *o.Width != width || *o.Height != height {
		return nil
	}
	return &o
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.WriteWith(path, 0o644, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// folderRef references the folder resource of folderPath, e.g.
// "Sprites/Enemies" -> {Enemies, folders/Sprites/Enemies.yy}.
func folderRef(folderPath string) ResourceRef {
	name := folderPath
	if i := strings.LastIndex(folderPath, "/"); i >= 0 {
		name = folderPath[i+1:]
	}
	return ResourceRef{Name: name, Path: "folders/" + folderPath + ".yy"}
}

// ensureFolders adds a Folders entry for every prefix of folderPath that the
// project does not have yet.
func ensureFolders(project *orderedObject, folderPath string) error {
	folders, err := arrayField(*project, "Folders")
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(folders))
	for _, raw := range folders {
		var f struct {
			FolderPath string `json:"folderPath"`
		}
		if json.Unmarshal(raw, &f) == nil {
			existing[f.FolderPath] = true
		}
	}

	var accumulated string
	for _, part := range strings.Split(folderPath, "/") {
		if accumulated == "" {
			accumulated = part
		} else {
			accumulated += "/" + part
		}
		path := "folders/" + accumulated + ".yy"
		if existing[path] {
			continue
		}
		raw, err := marshal(newFolder(part, path))
		if err != nil {
			return err
		}
		folders = append(folders, raw)
		existing[path] = true
	}

	return setArrayField(project, "Folders", folders)
}

// replaceResource drops every resources entry named name and appends a fresh
// one.
func replaceResource(project *orderedObject, name string) error {
	resources, err := arrayField(*project, "resources")
	if err != nil {
		return err
	}

	kept := resources[:0]
	for _, raw := range resources {
		var entry resourceEntry
		if json.Unmarshal(raw, &entry) == nil && entry.ID.Name == name {
			continue
		}
		kept = append(kept, raw)
	}

	raw, err := marshal(resourceEntry{ID: ResourceRef{Name: name, Path: spritePath(name)}})
	if err != nil {
		return err
	}
	return setArrayField(project, "resources", append(kept, raw))
}

func arrayField(project orderedObject, key string) ([]json.RawMessage, error) {
	raw, ok := project.Get(key)
	if !ok {
		return nil, fmt.Errorf("missing %q array in project", key)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("%q in project is not an array: %w", key, err)
	}
	return arr, nil
}

func setArrayField(project *orderedObject, key string, arr []json.RawMessage) error {
	if arr == nil {
		arr = []json.RawMessage{}
	}
	raw, err := marshal(arr)
	if err != nil {
		return err
	}
	project.Set(key, raw)
	return nil
}
