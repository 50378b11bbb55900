// Package pipeline turns one Aseprite file into game-ready sprites: it runs
// the exporter, splits every exported sheet into frames and optionally
// imports the frames into a GameMaker project.
package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/gamemaker"
	"github.com/gmhelper/gmhelper/internal/naming"
	"github.com/gmhelper/gmhelper/internal/output"
	"github.com/gmhelper/gmhelper/internal/report"
	"github.com/gmhelper/gmhelper/internal/sheet"
	"github.com/gmhelper/gmhelper/internal/sprite"
	"github.com/gmhelper/gmhelper/pkg/gmhelper"
)

// Options configures a Pipeline.
type Options struct {
	// OutputDir is passed to the exporter; empty exports next to the asset.
	OutputDir string
	// Split enables splitting sheets into GIF/PNG files.
	Split    bool
	GIFDelay int
	// Project is the .yyp file sprites are imported into; empty disables
	// the import.
	Project string
	// FolderRoot is the IDE folder imported sprites are placed under.
	FolderRoot string
	// WatchDir is the directory whose hierarchy is mirrored below
	// FolderRoot. Empty places every sprite directly in FolderRoot.
	WatchDir string
}

// Pipeline processes assets one at a time.
type Pipeline struct {
	runner Runner
	out    *output.Writer
	opts   Options
}

// New creates a Pipeline.
func New(runner Runner, out *output.Writer, opts Options) *Pipeline {
	if opts.GIFDelay <= 0 {
		opts.GIFDelay = sheet.DefaultDelay
	}
	if opts.FolderRoot == "" {
		opts.FolderRoot = "Sprites"
	}
	return &Pipeline{runner: runner, out: out, opts: opts}
}

// Result describes one processed asset.
type Result struct {
	Asset    string
	Exports  []sprite.ExportResult
	Outputs  []*sheet.Output
	Imported []string
}

// Process runs the whole pipeline for asset. Sheets that were reported are
// post-processed even when the exporter failed on a later tag; the failure
// is still returned.
func (p *Pipeline) Process(ctx context.Context, asset string) (*Result, error) {
	p.out.SpriteStart(filepath.Base(asset))

	run, err := p.runner.Run(ctx, asset, p.opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if len(run.Stdout) > 0 {
		p.out.Print("%s", run.Stdout)
	}

	results, scanErrs := report.Scan(bytes.NewReader(run.Stderr), func(line string) {
		p.out.Errorln("%s", line)
	})
	for _, err := range scanErrs {
		p.out.Warning("%v", err)
	}

	res := &Result{Asset: asset, Exports: results}
	var failures []error
	switch run.ExitCode {
	case gmhelper.ExitSuccess:
	case gmhelper.ExitEnvError:
		failures = append(failures, errors.Environmentf("exporter could not run for %s", asset))
	default:
		failures = append(failures, errors.Newf("exporter failed for %s (exit code %d)", asset, run.ExitCode))
	}

	if len(results) == 0 {
		if len(failures) == 0 {
			p.out.Warning("no sprite sheets exported from %s", asset)
		}
		return res, stderrors.Join(failures...)
	}
	for _, r := range dedupe(p.out, results) {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		if err := p.finish(asset, r, res); err != nil {
			p.out.TagFailed(r.TagName, err)
			failures = append(failures, err)
		}
	}
	return res, stderrors.Join(failures...)
}

// finish splits and imports one exported sheet.
func (p *Pipeline) finish(asset string, r sprite.ExportResult, res *Result) error {
	var frames []*image.RGBA
	if p.opts.Split {
		out, err := sheet.Process(r, "", p.opts.GIFDelay)
		if err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, out)
		frames = out.Frames
		p.out.TagExported(r.TagName, out.Path)
	} else {
		p.out.TagExported(r.TagName, r.Path)
		if p.opts.Project == "" {
			return nil
		}
		img, err := sheet.Load(r.Path)
		if err != nil {
			return err
		}
		frames = sheet.Split(img, r.Width, r.Height, r.FrameCount)
	}

	if p.opts.Project == "" {
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	watchDir := p.opts.WatchDir
	if watchDir == "" {
		watchDir = filepath.Dir(asset)
	}
	folder := naming.FolderPath(p.opts.FolderRoot, watchDir, asset)

	imp, err := gamemaker.Import(gamemaker.ImportOptions{
		Project:    p.opts.Project,
		SpriteName: name,
		Frames:     frames,
		FolderPath: folder,
		Width:      r.Width,
		Height:     r.Height,
	})
	if err != nil {
		return fmt.Errorf("import of %s failed: %w", name, err)
	}
	res.Imported = append(res.Imported, name)

	switch {
	case imp.Preserved:
		p.out.Info("    imported %s into %s (kept bbox and origin)", name, folder)
	case imp.Replaced:
		p.out.Info("    imported %s into %s (replaced)", name, folder)
	default:
		p.out.Info("    imported %s into %s", name, folder)
	}
	return nil
}

// dedupe drops results whose sheet was overwritten by a later result with
// the same output path, warning about each.
func dedupe(out *output.Writer, results []sprite.ExportResult) []sprite.ExportResult {
	last := make(map[string]int, len(results))
	for i, r := range results {
		last[r.Path] = i
	}

	kept := make([]sprite.ExportResult, 0, len(last))
	for i, r := range results {
		if j := last[r.Path]; j != i {
			out.Warning("tags %q and %q both export to %s", r.TagName, results[j].TagName, r.Path)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
