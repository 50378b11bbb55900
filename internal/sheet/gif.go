package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
)

// DefaultDelay is the per-frame delay in hundredths of a second.
const DefaultDelay = 10

// maxColors is the size of a GIF color table.
const maxColors = 256

// transparent is palette index 0. The encoder marks the first fully
// transparent palette entry as the transparent index.
var transparent = color.RGBA{}

type rgb struct{ r, g, b uint8 }

// EncodeGIF writes frames as an infinitely looping GIF with one shared
// palette. Fully transparent pixels map to index 0; every other pixel keeps
// its RGB value when it fits in the palette and otherwise takes the nearest
// opaque entry. Partial alpha is treated as opaque.
func EncodeGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	bounds := frames[0].Bounds()
	if bounds.Dx() > 0xFFFF || bounds.Dy() > 0xFFFF {
		return fmt.Errorf("frame size %dx%d exceeds the GIF limit of 65535", bounds.Dx(), bounds.Dy())
	}

	palette, index := buildPalette(frames)

	anim := &gif.GIF{
		LoopCount: 0,
		Config: image.Config{
			ColorModel: palette,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		},
	}
	for _, f := range frames {
		if f.Bounds().Size() != bounds.Size() {
			return fmt.Errorf("frame size %v differs from %v", f.Bounds().Size(), bounds.Size())
		}
		anim.Image = append(anim.Image, toPaletted(f, palette, index))
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	return gif.EncodeAll(w, anim)
}

// buildPalette collects opaque colors in first-seen order behind the
// transparent entry, up to the GIF table size.
func buildPalette(frames []*image.RGBA) (color.Palette, map[rgb]uint8) {
	palette := color.Palette{transparent}
	index := make(map[rgb]uint8)

	for _, f := range frames {
		b := f.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := f.RGBAAt(x, y)
				if c.A == 0 {
					continue
				}
				key := rgb{c.R, c.G, c.B}
				if _, seen := index[key]; seen || len(palette) == maxColors {
					continue
				}
				index[key] = uint8(len(palette))
				palette = append(palette, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
			}
		}
	}
	return palette, index
}

func toPaletted(f *image.RGBA, palette color.Palette, index map[rgb]uint8) *image.Paletted {
	b := f.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := f.RGBAAt(x, y)
			i := uint8(0)
			if c.A != 0 {
				key := rgb{c.R, c.G, c.B}
				var ok bool
				if i, ok = index[key]; !ok {
					i = nearest(key, palette)
				}
			}
			out.SetColorIndex(x-b.Min.X, y-b.Min.Y, i)
		}
	}
	return out
}

// nearest returns the opaque palette entry closest to c by squared RGB
// distance. Index 0 is never chosen unless it is the only entry.
func nearest(c rgb, palette color.Palette) uint8 {
	if len(palette) <= 1 {
		return 0
	}
	best, bestDist := 1, -1
	for i := 1; i < len(palette); i++ {
		p := palette[i].(color.RGBA)
		dr := int(c.r) - int(p.R)
		dg := int(c.g) - int(p.G)
		db := int(c.b) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
