// Package export drives the host through one sprite-sheet export per tag
// and reports a result for every export.
package export

import (
	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/host"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// ListTags returns the tags of the session's open asset in host order.
// It fails with NoAssetOpen when nothing is open and NoTagsFound when the
// asset has no tags.
func ListTags(s host.Session) ([]sprite.Tag, error) {
	a, err := s.Sprite()
	if err != nil {
		return nil, err
	}
	if len(a.Tags) == 0 {
		return nil, errors.NoTagsFound(a.Path)
	}
	return append([]sprite.Tag(nil), a.Tags...), nil
}
