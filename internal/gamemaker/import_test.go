package gamemaker

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// gmProject is a .yyp as GameMaker writes it, trailing commas included.
const gmProject = `{
  "$GMProject":"",
  "%Name":"Game",
  "AudioGroups":[],
  "Folders":[
    {"$GMFolder":"","%Name":"Sprites","folderPath":"folders/Sprites.yy","name":"Sprites","resourceType":"GMFolder","resourceVersion":"2.0",},
  ],
  "resources":[
    {"id":{"name":"sHeroIdle","path":"sprites/sHeroIdle/sHeroIdle.yy",},},
    {"id":{"name":"oPlayer","path":"objects/oPlayer/oPlayer.yy",},},
  ],
  "name":"Game",
}`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Game.yyp")
	if err := os.WriteFile(path, []byte(gmProject), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// frame returns a w x h frame with one opaque pixel at (x, y).
func frame(w, h, x, y int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
	return img
}

type projectView struct {
	Folders []struct {
		Name       string `json:"name"`
		FolderPath string `json:"folderPath"`
	} `json:"Folders"`
	Resources []resourceEntry `json:"resources"`
}

func readView(t *testing.T, path string) projectView {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var v projectView
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("written project is not valid JSON: %v", err)
	}
	return v
}

func readSprite(t *testing.T, path string) Sprite {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var s Sprite
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("written sprite is not valid JSON: %v", err)
	}
	return s
}

func TestImport_NewSprite(t *testing.T) {
	t.Parallel()
	project := writeProject(t)
	dir := filepath.Dir(project)

	res, err := Import(ImportOptions{
		Project:    project,
		SpriteName: "sOgreWalk",
		Frames:     []*image.RGBA{frame(8, 8, 2, 3), frame(8, 8, 5, 6)},
		FolderPath: "Sprites/Enemies/Bosses",
		Width:      8,
		Height:     8,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Replaced || res.Preserved || res.Frames != 2 {
		t.Errorf("Import() = %+v", res)
	}

	s := readSprite(t, res.SpriteFile)
	if s.Name != "sOgreWalk" || s.Width != 8 || s.Height != 8 {
		t.Errorf("sprite = %s %dx%d", s.Name, s.Width, s.Height)
	}
	if s.BBoxLeft != 2 || s.BBoxTop != 3 || s.BBoxRight != 5 || s.BBoxBottom != 6 {
		t.Errorf("bbox = %d,%d,%d,%d, want 2,3,5,6", s.BBoxLeft, s.BBoxTop, s.BBoxRight, s.BBoxBottom)
	}
	if s.Parent != (ResourceRef{Name: "Bosses", Path: "folders/Sprites/Enemies/Bosses.yy"}) {
		t.Errorf("parent = %+v", s.Parent)
	}
	if len(s.Frames) != 2 || len(s.Layers) != 1 {
		t.Fatalf("frames = %d, layers = %d", len(s.Frames), len(s.Layers))
	}
	keys := s.Sequence.Tracks[0].Keyframes.Keyframes
	if len(keys) != 2 || keys[1].Key != 1 || keys[1].Channels["0"].ID.Name != s.Frames[1].Name {
		t.Errorf("keyframes = %+v", keys)
	}
	if s.Sequence.Length != 2 {
		t.Errorf("sequence length = %v, want 2", s.Sequence.Length)
	}

	spriteDir := filepath.Join(dir, "sprites", "sOgreWalk")
	for _, f := range s.Frames {
		for _, p := range []string{
			filepath.Join(spriteDir, f.Name+".png"),
			filepath.Join(spriteDir, "layers", f.Name, s.Layers[0].Name+".png"),
		} {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("missing image %s", p)
			}
		}
	}

	v := readView(t, project)
	var folders []string
	for _, f := range v.Folders {
		folders = append(folders, f.FolderPath)
	}
	want := "folders/Sprites.yy,folders/Sprites/Enemies.yy,folders/Sprites/Enemies/Bosses.yy"
	if got := strings.Join(folders, ","); got != want {
		t.Errorf("folders = %s, want %s", got, want)
	}
	last := v.Resources[len(v.Resources)-1]
	if last.ID != (ResourceRef{Name: "sOgreWalk", Path: "sprites/sOgreWalk/sOgreWalk.yy"}) {
		t.Errorf("last resource = %+v", last.ID)
	}
	if len(v.Resources) != 3 {
		t.Errorf("resources = %d, want 3", len(v.Resources))
	}
}

func TestImport_KeepsProjectKeyOrder(t *testing.T) {
	t.Parallel()
	project := writeProject(t)

	_, err := Import(ImportOptions{
		Project: project, SpriteName: "sA", Frames: []*image.RGBA{frame(4, 4, 0, 0)},
		FolderPath: "Sprites", Width: 4, Height: 4,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	data, err := os.ReadFile(project)
	if err != nil {
		t.Fatal(err)
	}
	var written orderedObject
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("written project is not valid JSON: %v", err)
	}

	var keys []string
	for _, m := range written {
		keys = append(keys, m.Key)
	}
	want := []string{"$GMProject", "%Name", "AudioGroups", "Folders", "resources", "name"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("top-level keys = %v, want %v", keys, want)
	}
}

func TestImport_ReplacesExistingSprite(t *testing.T) {
	t.Parallel()
	project := writeProject(t)
	opts := ImportOptions{
		Project: project, SpriteName: "sHeroIdle", Frames: []*image.RGBA{frame(4, 4, 1, 1)},
		FolderPath: "Sprites", Width: 4, Height: 4,
	}

	first, err := Import(opts)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	old := readSprite(t, first.SpriteFile)

	second, err := Import(opts)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if !second.Replaced {
		t.Error("second Import() Replaced = false")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(project), "sprites", "sHeroIdle", old.Frames[0].Name+".png")); !os.IsNotExist(err) {
		t.Error("old frame image was not removed")
	}

	v := readView(t, project)
	count := 0
	for _, r := range v.Resources {
		if r.ID.Name == "sHeroIdle" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("sHeroIdle entries = %d, want 1", count)
	}
	if len(v.Folders) != 1 {
		t.Errorf("folders = %d, want 1", len(v.Folders))
	}
}

func TestImport_PreservesSettingsOfSameSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		size     int
		preserve bool
	}{
		{"same size", 4, true},
		{"resized", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			project := writeProject(t)
			res, err := Import(ImportOptions{
				Project: project, SpriteName: "sBox", Frames: []*image.RGBA{frame(4, 4, 1, 1)},
				FolderPath: "Sprites", Width: 4, Height: 4,
			})
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}

			// Simulate edits made in the IDE.
			s := readSprite(t, res.SpriteFile)
			s.BBoxMode, s.BBoxLeft, s.BBoxRight = 2, 0, 3
			s.Origin, s.Sequence.XOrigin, s.Sequence.YOrigin = 4, 2, 3
			data, _ := marshalIndent(s)
			if err := os.WriteFile(res.SpriteFile, data, 0o644); err != nil {
				t.Fatal(err)
			}

			res, err = Import(ImportOptions{
				Project: project, SpriteName: "sBox", Frames: []*image.RGBA{frame(tt.size, tt.size, 1, 1)},
				FolderPath: "Sprites", Width: tt.size, Height: tt.size,
			})
			if err != nil {
				t.Fatalf("re-Import() error = %v", err)
			}
			if res.Preserved != tt.preserve {
				t.Errorf("Preserved = %v, want %v", res.Preserved, tt.preserve)
			}

			got := readSprite(t, res.SpriteFile)
			if tt.preserve {
				if got.BBoxMode != 2 || got.BBoxRight != 3 || got.Origin != 4 || got.Sequence.XOrigin != 2 || got.Sequence.YOrigin != 3 {
					t.Errorf("settings not preserved: %+v", got)
				}
			} else if got.BBoxMode != 0 || got.Origin != 0 || got.BBoxRight != 1 {
				t.Errorf("settings of a resized sprite were carried over: bboxMode=%d origin=%d right=%d",
					got.BBoxMode, got.Origin, got.BBoxRight)
			}
		})
	}
}

func TestImport_TransparentFramesUseFullBox(t *testing.T) {
	t.Parallel()
	project := writeProject(t)

	res, err := Import(ImportOptions{
		Project: project, SpriteName: "sEmpty", Frames: []*image.RGBA{image.NewRGBA(image.Rect(0, 0, 5, 3))},
		FolderPath: "Sprites", Width: 5, Height: 3,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	s := readSprite(t, res.SpriteFile)
	if s.BBoxLeft != 0 || s.BBoxTop != 0 || s.BBoxRight != 4 || s.BBoxBottom != 2 {
		t.Errorf("bbox = %d,%d,%d,%d, want 0,0,4,2", s.BBoxLeft, s.BBoxTop, s.BBoxRight, s.BBoxBottom)
	}
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	noResources := filepath.Join(dir, "bad.yyp")
	if err := os.WriteFile(noResources, []byte(`{"Folders":[],}`), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yyp")
	if err := os.WriteFile(broken, []byte(`{"Folders":`), 0o644); err != nil {
		t.Fatal(err)
	}
	one := []*image.RGBA{frame(2, 2, 0, 0)}

	tests := []struct {
		name string
		opts ImportOptions
		want string
	}{
		{"no frames", ImportOptions{Project: noResources, SpriteName: "s", FolderPath: "Sprites"}, "no frames"},
		{"no folder", ImportOptions{Project: noResources, SpriteName: "s", Frames: one}, "no folder path"},
		{"missing project", ImportOptions{Project: filepath.Join(dir, "none.yyp"), SpriteName: "s", Frames: one, FolderPath: "Sprites"}, "failed to read"},
		{"broken project", ImportOptions{Project: broken, SpriteName: "s", Frames: one, FolderPath: "Sprites"}, "failed to parse"},
		{"missing resources", ImportOptions{Project: noResources, SpriteName: "s", Frames: one, FolderPath: "Sprites", Width: 2, Height: 2}, `missing "resources"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Import() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFindProject(t *testing.T) {
	t.Parallel()
	single := t.TempDir()
	yyp := filepath.Join(single, "Game.yyp")
	os.WriteFile(yyp, []byte("{}"), 0o644)

	multi := t.TempDir()
	os.WriteFile(filepath.Join(multi, "A.yyp"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(multi, "B.yyp"), []byte("{}"), 0o644)

	empty := t.TempDir()
	other := filepath.Join(empty, "notes.txt")
	os.WriteFile(other, []byte("x"), 0o644)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{"yyp file", yyp, yyp, ""},
		{"directory with one project", single, yyp, ""},
		{"directory with two projects", multi, "", "multiple .yyp files"},
		{"directory without project", empty, "", "no .yyp file"},
		{"other file", other, "", "not a .yyp file"},
		{"missing", filepath.Join(empty, "nope"), "", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindProject(tt.path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("FindProject() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FindProject() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestFolderRef(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want ResourceRef
	}{
		{"Sprites", ResourceRef{Name: "Sprites", Path: "folders/Sprites.yy"}},
		{"Sprites/Enemies", ResourceRef{Name: "Enemies", Path: "folders/Sprites/Enemies.yy"}},
	}
	for _, tt := range tests {
		if got := folderRef(tt.path); got != tt.want {
			t.Errorf("folderRef(%q) = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}
