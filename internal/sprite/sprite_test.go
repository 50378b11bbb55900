package sprite

import "testing"

func TestTag_FrameCount(t *testing.T) {
	tests := []struct {
		tag  Tag
		want int
	}{
		{Tag{Name: "idle", From: 0, To: 3}, 4},
		{Tag{Name: "run", From: 4, To: 9}, 6},
		{Tag{Name: "single", From: 7, To: 7}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.tag.Name, func(t *testing.T) {
			if got := tt.tag.FrameCount(); got != tt.want {
				t.Errorf("FrameCount() = %d, want %d", got, tt.want)
			}
			if !tt.tag.Valid() {
				t.Errorf("Valid() = false for %v", tt.tag)
			}
		})
	}
}

func TestTag_Valid(t *testing.T) {
	if (Tag{From: 5, To: 4}).Valid() {
		t.Error("Valid() = true for reversed range")
	}
	if (Tag{From: -1, To: 4}).Valid() {
		t.Error("Valid() = true for negative start")
	}
}

func TestExportJob_Result(t *testing.T) {
	job := ExportJob{
		OutputPath:   "out/sHeroIdle.png",
		Tag:          Tag{Name: "idle", From: 2, To: 5},
		SpriteWidth:  32,
		SpriteHeight: 24,
	}
	want := ExportResult{Path: "out/sHeroIdle.png", Width: 32, Height: 24, FrameCount: 4, TagName: "idle"}
	if got := job.Result(); got != want {
		t.Errorf("Result() = %+v, want %+v", got, want)
	}
}

func TestAsset_Clone(t *testing.T) {
	a := &Asset{Path: "a.aseprite", Width: 8, Height: 8, Tags: []Tag{{Name: "idle"}}}
	c := a.Clone()
	c.Tags[0].Name = "changed"
	c.Width = 99
	if a.Tags[0].Name != "idle" || a.Width != 8 {
		t.Error("Clone() shares state with the original")
	}
	var nilAsset *Asset
	if nilAsset.Clone() != nil {
		t.Error("Clone() of nil asset should be nil")
	}
}
