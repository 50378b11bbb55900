package sheet

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmhelper/gmhelper/internal/fsutil"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// Output describes the file written for one exported sheet.
type Output struct {
	Path          string
	Frames        []*image.RGBA
	Animated      bool
	RemovedSource bool
}

// Load decodes the PNG sheet at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spritesheet not found: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode spritesheet %s: %w", path, err)
	}
	return img, nil
}

// Process splits the sheet described by res into frames and writes
// <outputDir>/<stem>.gif for several frames or <outputDir>/<stem>.png for
// one. An empty outputDir means the sheet's directory. The sheet is removed
// afterwards unless it is the output file itself.
func Process(res sprite.ExportResult, outputDir string, delay int) (*Output, error) {
	img, err := Load(res.Path)
	if err != nil {
		return nil, err
	}

	frames := Split(img, res.Width, res.Height, res.FrameCount)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s (%dx%d frames of %v)",
			res.Path, res.Width, res.Height, img.Bounds().Size())
	}

	if outputDir == "" {
		outputDir = filepath.Dir(res.Path)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))

	out := &Output{Frames: frames, Animated: len(frames) > 1}
	if out.Animated {
		out.Path = filepath.Join(outputDir, stem+".gif")
		err = fsutil.WriteWith(out.Path, 0o644, func(w io.Writer) error {
			return EncodeGIF(w, frames, delay)
		})
	} else {
		out.Path = filepath.Join(outputDir, stem+".png")
		err = fsutil.WriteWith(out.Path, 0o644, func(w io.Writer) error {
			return png.Encode(w, frames[0])
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out.Path, err)
	}

	if !fsutil.SameFile(res.Path, out.Path) {
		if err := os.Remove(res.Path); err != nil {
			return out, fmt.Errorf("failed to remove spritesheet: %w", err)
		}
		out.RemovedSource = true
	}
	return out, nil
}
