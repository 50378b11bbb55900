package export

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/host"
	"github.com/gmhelper/gmhelper/internal/naming"
	"github.com/gmhelper/gmhelper/internal/output"
	"github.com/gmhelper/gmhelper/internal/report"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// Policy decides what happens after one tag fails to export.
type Policy int

const (
	// PolicyAbort stops at the first failed tag.
	PolicyAbort Policy = iota
	// PolicyContinue reports the failure and moves on to the next tag.
	PolicyContinue
)

// ParsePolicy maps a configuration value to a Policy. Empty means abort.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "abort":
		return PolicyAbort, nil
	case "continue":
		return PolicyContinue, nil
	default:
		return PolicyAbort, errors.Configf("export.on_error: unknown policy %q (want abort or continue)", s)
	}
}

func (p Policy) String() string {
	if p == PolicyContinue {
		return "continue"
	}
	return "abort"
}

// Driver exports every tag of an asset.
type Driver struct {
	Session     host.Session
	Reporter    report.Emitter
	Diagnostics *output.Writer // may be nil
	Policy      Policy
}

// ExportAll exports each tag of filePath to its own sheet under outputDir and
// emits a result for each before moving on to the next tag. An empty
// outputDir means the directory of filePath.
//
// The asset is reloaded before every tag so no export observes state left
// behind by a previous one. The returned results are those emitted, in host
// tag order, even when an error is returned.
func (d *Driver) ExportAll(ctx context.Context, filePath, outputDir string) ([]sprite.ExportResult, error) {
	if filePath == "" {
		return nil, errors.MissingParameter("filepath")
	}
	if outputDir == "" {
		outputDir = naming.DefaultOutputDir(filePath)
	}

	if err := d.Session.Open(ctx, filePath); err != nil {
		return nil, err
	}
	tags, err := ListTags(d.Session)
	if err != nil {
		return nil, err
	}

	baseName := naming.BaseName(filePath)
	var results []sprite.ExportResult
	var failures []error

	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := d.exportTag(ctx, filePath, baseName, outputDir, tag)
		if err != nil {
			if d.Policy == PolicyAbort || !errors.IsKind(err, errors.KindHostExport) {
				return results, err
			}
			d.tagFailed(tag.Name, err)
			failures = append(failures, err)
			continue
		}
		results = append(results, res)
	}

	return results, stderrors.Join(failures...)
}

func (d *Driver) exportTag(ctx context.Context, filePath, baseName, outputDir string, tag sprite.Tag) (sprite.ExportResult, error) {
	if err := d.Session.Reload(ctx); err != nil {
		return sprite.ExportResult{}, err
	}
	a, err := d.Session.Sprite()
	if err != nil {
		return sprite.ExportResult{}, err
	}

	job := sprite.ExportJob{
		OutputPath:   naming.JoinOutputPath(outputDir, naming.OutputFileName(baseName, tag.Name)),
		Tag:          tag,
		SpriteWidth:  a.Width,
		SpriteHeight: a.Height,
	}
	d.debug("exporting %s [%s] -> %s", filePath, tag, job.OutputPath)

	if err := d.Session.ExportSheet(ctx, host.FixedSheetOptions(tag.Name, job.OutputPath)); err != nil {
		if !errors.IsKind(err, errors.KindHostExport) && !errors.IsKind(err, errors.KindEnvironment) {
			err = errors.HostExport(filePath, tag.Name, err)
		}
		return sprite.ExportResult{}, err
	}

	res := job.Result()
	if err := d.Reporter.Emit(res); err != nil {
		return res, errors.Wrap(err, fmt.Sprintf("failed to report export of tag %q", tag.Name))
	}
	return res, nil
}

func (d *Driver) debug(format string, args ...interface{}) {
	if d.Diagnostics != nil {
		d.Diagnostics.Debug(format, args...)
	}
}

func (d *Driver) tagFailed(tag string, err error) {
	if d.Diagnostics != nil {
		d.Diagnostics.TagFailed(tag, err)
	}
}
