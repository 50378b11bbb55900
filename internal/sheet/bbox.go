package sheet

import "image"

// BBox is a pixel rectangle, inclusive on all sides.
type BBox struct {
	Left, Top, Right, Bottom int
}

// TightBBox returns the smallest box holding every non-transparent pixel of
// every frame. ok is false when all frames are fully transparent.
func TightBBox(frames []*image.RGBA) (box BBox, ok bool) {
	box = BBox{Left: int(^uint(0) >> 1), Top: int(^uint(0) >> 1), Right: -1, Bottom: -1}

	for _, f := range frames {
		b := f.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if f.RGBAAt(x, y).A == 0 {
					continue
				}
				lx, ly := x-b.Min.X, y-b.Min.Y
				box.Left = min(box.Left, lx)
				box.Top = min(box.Top, ly)
				box.Right = max(box.Right, lx)
				box.Bottom = max(box.Bottom, ly)
			}
		}
	}

	if box.Right < 0 {
		return BBox{}, false
	}
	return box, true
}
