// Package sheet turns exported sprite sheets into per-frame images: split
// into frames, then written as an animated GIF or a single PNG.
package sheet

import (
	"image"
	"image/draw"
)

// Split crops img into frameW x frameH frames, row by row, left to right,
// stopping after count frames. Partial cells at the right and bottom edges
// are ignored.
func Split(img image.Image, frameW, frameH, count int) []*image.RGBA {
	if frameW <= 0 || frameH <= 0 || count <= 0 {
		return nil
	}

	b := img.Bounds()
	perRow := b.Dx() / frameW
	rows := b.Dy() / frameH

	frames := make([]*image.RGBA, 0, min(count, perRow*rows))
	for row := 0; row < rows && len(frames) < count; row++ {
		for col := 0; col < perRow && len(frames) < count; col++ {
			src := image.Pt(b.Min.X+col*frameW, b.Min.Y+row*frameH)
			frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
			draw.Draw(frame, frame.Bounds(), img, src, draw.Src)
			frames = append(frames, frame)
		}
	}
	return frames
}
