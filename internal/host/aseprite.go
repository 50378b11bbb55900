package host

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// DefaultBinary is the aseprite executable looked up on PATH.
const DefaultBinary = "aseprite"

// Aseprite drives the aseprite command line in batch mode. Every invocation
// loads the sprite from disk, so the open-asset slot is the path plus the
// metadata snapshot taken by the last Open or Reload.
type Aseprite struct {
	bin     string
	stdout  io.Writer
	stderr  io.Writer
	verbose bool

	path  string
	asset *sprite.Asset
}

// NewAseprite creates a session for the given executable. An empty bin uses
// DefaultBinary.
func NewAseprite(bin string) *Aseprite {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Aseprite{
		bin:    bin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput sets where the host's own stdout and its forwarded stderr go.
func (a *Aseprite) SetOutput(stdout, stderr io.Writer) {
	a.stdout = stdout
	a.stderr = stderr
}

// SetVerbose echoes host commands and tees host stderr while they run.
func (a *Aseprite) SetVerbose(v bool) {
	a.verbose = v
}

// Open implements Session.
func (a *Aseprite) Open(ctx context.Context, path string) error {
	a.path = ""
	a.asset = nil

	if _, err := os.Stat(path); err != nil {
		return errors.NoAssetOpen(path, err)
	}
	asset, err := a.probe(ctx, path)
	if err != nil {
		return err
	}
	a.path = path
	a.asset = asset
	return nil
}

// Reload implements Session.
func (a *Aseprite) Reload(ctx context.Context) error {
	if a.path == "" {
		return errors.NoAssetOpen("", nil)
	}
	asset, err := a.probe(ctx, a.path)
	if err != nil {
		return err
	}
	a.asset = asset
	return nil
}

// Sprite implements Session.
func (a *Aseprite) Sprite() (*sprite.Asset, error) {
	if a.asset == nil {
		return nil, errors.NoAssetOpen("", nil)
	}
	return a.asset.Clone(), nil
}

// ExportSheet implements Session. The host prints its sheet description to
// stdout, which is forwarded untouched.
func (a *Aseprite) ExportSheet(ctx context.Context, opts SheetOptions) error {
	if a.path == "" {
		return errors.NoAssetOpen("", nil)
	}
	args := buildSheetArgs(a.path, opts)
	if err := a.run(ctx, args, a.stdout); err != nil {
		if errors.IsKind(err, errors.KindEnvironment) {
			return err
		}
		return errors.HostExport(a.path, opts.Tag, err)
	}
	return nil
}

// probe asks the host for frame sizes and tags by rendering a throwaway
// sheet with a JSON data file next to it.
func (a *Aseprite) probe(ctx context.Context, path string) (*sprite.Asset, error) {
	tmp, err := os.MkdirTemp("", "gmhelper-probe-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create probe directory")
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	dataPath := filepath.Join(tmp, "probe.json")
	args := buildProbeArgs(path, filepath.Join(tmp, "probe.png"), dataPath)
	if err := a.run(ctx, args, io.Discard); err != nil {
		if errors.IsKind(err, errors.KindEnvironment) {
			return nil, err
		}
		return nil, errors.NoAssetOpen(path, err)
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, errors.NoAssetOpen(path, fmt.Errorf("host wrote no sprite data: %w", err))
	}
	asset, err := parseSheetData(data, path)
	if err != nil {
		return nil, errors.NoAssetOpen(path, err)
	}
	return asset, nil
}

// run executes the host once. Host stderr is captured for error reports and
// tee'd to a.stderr in verbose mode.
func (a *Aseprite) run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, a.bin, args...)
	cmd.Env = os.Environ()

	var stderrBuf bytes.Buffer
	cmd.Stdout = stdout
	if a.verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, a.stderr)
		fmt.Fprintf(a.stderr, "Running: %s %s\n", a.bin, strings.Join(args, " "))
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return errors.Environmentf("%s not found: make sure aseprite is installed and on PATH (or set aseprite.path)", a.bin)
	}
	if msg := strings.TrimSpace(stderrBuf.String()); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

// buildSheetArgs constructs the command line for one sheet export.
func buildSheetArgs(file string, opts SheetOptions) []string {
	var args []string
	if !opts.UI {
		args = append(args, "-b")
	}
	if opts.Tag != "" {
		args = append(args, "--tag", opts.Tag)
	}
	args = append(args, file, "--sheet", opts.OutputPath)

	sheetType := opts.Type
	if sheetType == "" {
		sheetType = SheetHorizontal
	}
	args = append(args, "--sheet-type", string(sheetType))
	if opts.Columns > 0 {
		args = append(args, "--sheet-columns", strconv.Itoa(opts.Columns))
	}
	if opts.Rows > 0 {
		args = append(args, "--sheet-rows", strconv.Itoa(opts.Rows))
	}
	args = append(args,
		"--border-padding", strconv.Itoa(opts.BorderPadding),
		"--shape-padding", strconv.Itoa(opts.ShapePadding),
		"--inner-padding", strconv.Itoa(opts.InnerPadding),
	)
	if opts.Trim {
		args = append(args, "--trim")
	}
	if opts.Extrude {
		args = append(args, "--extrude")
	}
	if opts.IgnoreEmpty {
		args = append(args, "--ignore-empty")
	}
	if opts.MergeDuplicates {
		args = append(args, "--merge-duplicates")
	}
	if opts.DataFile != "" {
		args = append(args, "--data", opts.DataFile)
	}
	return append(args, "--format", "json-array")
}

// buildProbeArgs constructs the metadata probe command line.
func buildProbeArgs(file, sheetPath, dataPath string) []string {
	return []string{
		"-b", "--list-tags", file,
		"--sheet", sheetPath,
		"--data", dataPath,
		"--format", "json-array",
	}
}

// sheetData is the subset of the host's json-array sheet description we read.
type sheetData struct {
	Frames []struct {
		SourceSize struct {
			W int `json:"w"`
			H int `json:"h"`
		} `json:"sourceSize"`
	} `json:"frames"`
	Meta struct {
		FrameTags []struct {
			Name      string `json:"name"`
			From      int    `json:"from"`
			To        int    `json:"to"`
			Direction string `json:"direction"`
		} `json:"frameTags"`
	} `json:"meta"`
}

// parseSheetData converts the host's sheet description into an Asset.
// Tags keep the order the host reported them in.
func parseSheetData(data []byte, path string) (*sprite.Asset, error) {
	var sd sheetData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse sprite data: %w", err)
	}
	if len(sd.Frames) == 0 {
		return nil, fmt.Errorf("sprite data has no frames")
	}

	asset := &sprite.Asset{
		Path:   path,
		Width:  sd.Frames[0].SourceSize.W,
		Height: sd.Frames[0].SourceSize.H,
		Tags:   make([]sprite.Tag, 0, len(sd.Meta.FrameTags)),
	}
	for _, ft := range sd.Meta.FrameTags {
		tag := sprite.Tag{Name: ft.Name, From: ft.From, To: ft.To, Direction: ft.Direction}
		if !tag.Valid() {
			return nil, fmt.Errorf("tag %q has invalid frame range %d-%d", ft.Name, ft.From, ft.To)
		}
		asset.Tags = append(asset.Tags, tag)
	}
	return asset, nil
}

// Status describes an aseprite installation.
type Status struct {
	Installed bool
	Version   string
	Path      string
}

// Check reports whether bin is installed and which version it is.
func Check(bin string) Status {
	if bin == "" {
		bin = DefaultBinary
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return Status{Installed: false}
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return Status{Installed: true, Path: path}
	}
	return Status{Installed: true, Version: parseVersion(string(out)), Path: path}
}

// parseVersion extracts "1.3.7" from output like "Aseprite 1.3.7-x64".
func parseVersion(out string) string {
	fields := strings.Fields(out)
	for _, f := range fields {
		if f != "" && f[0] >= '0' && f[0] <= '9' {
			return f
		}
	}
	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return ""
}
