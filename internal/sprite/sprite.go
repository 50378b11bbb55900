// Package sprite defines the data model shared by the exporter, the host
// session and the result protocol.
package sprite

import "fmt"

// Asset is a sprite source file as loaded by the host.
type Asset struct {
	Path   string
	Width  int
	Height int
	Tags   []Tag
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	c.Tags = append([]Tag(nil), a.Tags...)
	return &c
}

// Tag is a named, inclusive frame range of one asset.
type Tag struct {
	Name      string
	From      int
	To        int
	Direction string // forward, reverse, pingpong; informational only
}

// FrameCount returns the number of frames covered by the tag.
func (t Tag) FrameCount() int {
	return t.To - t.From + 1
}

// Valid reports whether the frame range is well formed.
func (t Tag) Valid() bool {
	return t.From >= 0 && t.To >= t.From
}

func (t Tag) String() string {
	return fmt.Sprintf("%s (frames %d-%d)", t.Name, t.From, t.To)
}

// ExportJob describes one pending export of one tag. Jobs are created right
// before the host export call and dropped after the result is reported.
type ExportJob struct {
	OutputPath   string
	Tag          Tag
	SpriteWidth  int
	SpriteHeight int
}

// Result converts a finished job into its reported form.
func (j ExportJob) Result() ExportResult {
	return ExportResult{
		Path:       j.OutputPath,
		Width:      j.SpriteWidth,
		Height:     j.SpriteHeight,
		FrameCount: j.Tag.FrameCount(),
		TagName:    j.Tag.Name,
	}
}

// ExportResult is the record reported for every exported sheet.
// Width and Height are the dimensions of a single frame.
type ExportResult struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FrameCount int    `json:"frame_count"`
	TagName    string `json:"tag_name"`
}
