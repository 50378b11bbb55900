package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gmhelper/gmhelper/internal/host"
)

// List prints the tags of filePath, or of the session's open asset when
// filePath is empty, one 1-indexed line per tag:
//
//	Tags in hero.aseprite:
//	  1. idle (frames 0-3)
//	  2. run (frames 4-9)
func List(ctx context.Context, s host.Session, filePath string, w io.Writer) error {
	if filePath != "" {
		if err := s.Open(ctx, filePath); err != nil {
			return err
		}
	}

	tags, err := ListTags(s)
	if err != nil {
		return err
	}
	a, err := s.Sprite()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Tags in %s:\n", filepath.Base(a.Path)); err != nil {
		return err
	}
	for i, tag := range tags {
		if _, err := fmt.Fprintf(w, "  %d. %s (frames %d-%d)\n", i+1, tag.Name, tag.From, tag.To); err != nil {
			return err
		}
	}
	return nil
}
