// Package host models the external asset-editing program as a single-owner
// session handle.
//
// A Session holds at most one open sprite. Exports may leave the host's
// in-memory copy of that sprite modified, so callers that export more than
// once call Reload between exports to get back to the on-disk state.
// Sessions are not safe for concurrent use.
package host

import (
	"context"

	"github.com/gmhelper/gmhelper/internal/sprite"
)

// Session is an open connection to the host's single open-asset slot.
type Session interface {
	// Open loads the asset at path, replacing whatever was open.
	Open(ctx context.Context, path string) error

	// Reload discards in-memory state and loads the open asset again from
	// its path. It fails with NoAssetOpen when nothing was opened.
	Reload(ctx context.Context) error

	// Sprite returns a snapshot of the open asset, or NoAssetOpen.
	Sprite() (*sprite.Asset, error)

	// ExportSheet renders frames of the open asset to a sheet image.
	ExportSheet(ctx context.Context, opts SheetOptions) error
}

// SheetType is the layout of a rendered sprite sheet.
type SheetType string

// SheetHorizontal lays every frame out in one row.
const SheetHorizontal SheetType = "horizontal"

// SheetOptions are the parameters of a single sheet export.
type SheetOptions struct {
	Tag        string // only frames of this tag are rendered
	OutputPath string // sheet image to write
	Type       SheetType
	Columns    int // 0 lets the host decide
	Rows       int // 0 lets the host decide

	BorderPadding int
	ShapePadding  int
	InnerPadding  int

	Trim            bool
	Extrude         bool
	IgnoreEmpty     bool
	MergeDuplicates bool
	UI              bool
	DataFile        string // sidecar metadata file; empty writes none
}

// FixedSheetOptions returns the export parameters used for every tag: a single
// horizontal strip with host-computed columns and rows, no padding, no
// trimming, no extrusion, empty frames kept, duplicates kept, no UI and no
// sidecar data file.
func FixedSheetOptions(tag, outputPath string) SheetOptions {
	return SheetOptions{
		Tag:        tag,
		OutputPath: outputPath,
		Type:       SheetHorizontal,
	}
}
