package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	gmerrors "github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/host"
	"github.com/gmhelper/gmhelper/internal/output"
	"github.com/gmhelper/gmhelper/internal/pipeline"
	"github.com/gmhelper/gmhelper/internal/project"
	"github.com/gmhelper/gmhelper/internal/report"
	"github.com/gmhelper/gmhelper/internal/sprite"
	"github.com/gmhelper/gmhelper/internal/testing/mocks"
)

// newTestApp creates an app writing to buffers.
func newTestApp() (*app, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &app{
		out:    output.NewWithWriters(stdout, stderr, false),
		diag:   output.NewWithWriters(stderr, stderr, false),
		stdout: stdout,
		stderr: stderr,
	}, stdout, stderr
}

// useSession makes every command use s.
func useSession(t *testing.T, s host.Session) {
	t.Helper()
	old := newSession
	newSession = func(*app, string) host.Session { return s }
	t.Cleanup(func() { newSession = old })
}

// writeConfig creates a project with the given config and returns the
// config path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	path := project.ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func heroHost() *mocks.Host {
	return mocks.NewHost().WithTags("hero.aseprite",
		sprite.Tag{Name: "idle", From: 0, To: 3},
		sprite.Tag{Name: "run", From: 4, To: 9},
	)
}

func TestRun_Version(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--version"}} {
		a, stdout, _ := newTestApp()
		if code := a.run(args); code != 0 {
			t.Errorf("run(%v) = %d, want 0", args, code)
		}
		if got := stdout.String(); got != "gmhelper dev\n" {
			t.Errorf("run(%v) output = %q", args, got)
		}
	}
}

func TestRun_Help(t *testing.T) {
	a, stdout, _ := newTestApp()

	if code := a.run(nil); code != 0 {
		t.Errorf("run() = %d, want 0", code)
	}
	for _, want := range []string{"export", "list", "process", "watch", "config"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	a, _, stderr := newTestApp()

	if code := a.run([]string{"export", "--bogus"}); code != gmerrors.ExitConfigError {
		t.Errorf("run() = %d, want %d", code, gmerrors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), "gmhelper: unknown flag") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCmdExport_ReportsEachTag(t *testing.T) {
	m := heroHost()
	useSession(t, m)
	cfg := writeConfig(t, "aseprite:\n  path: aseprite\n")
	a, stdout, stderr := newTestApp()

	code := a.run([]string{"--config", cfg, "export", "--filepath", "hero.aseprite", "--outputdir", "out"})
	if code != 0 {
		t.Fatalf("export = %d, stderr = %s", code, stderr.String())
	}

	want := `JSON_EXPORT:{"path":"out/sHeroIdle.png","width":16,"height":16,"frame_count":4,"tag_name":"idle"}` + "\n" +
		`JSON_EXPORT:{"path":"out/sHeroRun.png","width":16,"height":16,"frame_count":6,"tag_name":"run"}` + "\n"
	if stderr.String() != want {
		t.Errorf("stderr = %q, want %q", stderr.String(), want)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want only host output", stdout.String())
	}
	if got := m.Exports(); len(got) != 2 || got[0] != host.FixedSheetOptions("idle", "out/sHeroIdle.png") {
		t.Errorf("exports = %+v", got)
	}
}

func TestCmdExport_OutputDirFromConfig(t *testing.T) {
	m := heroHost()
	useSession(t, m)
	cfg := writeConfig(t, "export:\n  output_dir: sheets\n")
	a, _, stderr := newTestApp()

	if code := a.run([]string{"--config", cfg, "export", "--filepath", "hero.aseprite"}); code != 0 {
		t.Fatalf("export = %d, stderr = %s", code, stderr.String())
	}
	// A configured directory is relative to the project root, not the
	// working directory.
	root := filepath.Dir(filepath.Dir(cfg))
	want := `"path":"` + filepath.Join(root, "sheets", "sHeroIdle.png") + `"`
	if !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr = %q, want it to contain %s", stderr.String(), want)
	}
	if got := m.Exports()[0].OutputPath; got != filepath.Join(root, "sheets", "sHeroIdle.png") {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestCmdExport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		host     *mocks.Host
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing filepath",
			host:     heroHost(),
			args:     []string{"export"},
			wantCode: gmerrors.ExitConfigError,
			wantErr:  "missing required parameter: filepath",
		},
		{
			name:     "no such file",
			host:     heroHost(),
			args:     []string{"export", "--filepath", "missing.aseprite"},
			wantCode: gmerrors.ExitSuccess,
			wantErr:  "no sprite is open",
		},
		{
			name:     "no tags",
			host:     mocks.NewHost().WithTags("blank.aseprite"),
			args:     []string{"export", "--filepath", "blank.aseprite"},
			wantCode: gmerrors.ExitSuccess,
			wantErr:  "no tags found",
		},
		{
			name:     "invalid policy",
			host:     heroHost(),
			args:     []string{"export", "--filepath", "hero.aseprite", "--on-error", "retry"},
			wantCode: gmerrors.ExitConfigError,
			wantErr:  "retry",
		},
		{
			name:     "positional argument",
			host:     heroHost(),
			args:     []string{"export", "hero.aseprite"},
			wantCode: gmerrors.ExitConfigError,
			wantErr:  "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useSession(t, tt.host)
			cfg := writeConfig(t, "{}\n")
			a, _, stderr := newTestApp()

			code := a.run(append([]string{"--config", cfg}, tt.args...))
			if code != tt.wantCode {
				t.Errorf("run() = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want containing %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestCmdExport_FailurePolicy(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		config      string
		wantExports int32
	}{
		{"abort by default", nil, "{}\n", 1},
		{"continue from config", nil, "export:\n  on_error: continue\n", 2},
		{"flag overrides config", []string{"--on-error", "abort"}, "export:\n  on_error: continue\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := heroHost().WithExportFunc(func(context.Context, host.SheetOptions) error {
				return gmerrors.New("disk full")
			})
			useSession(t, m)
			cfg := writeConfig(t, tt.config)
			a, _, stderr := newTestApp()

			args := append([]string{"--config", cfg, "export", "--filepath", "hero.aseprite"}, tt.args...)
			if code := a.run(args); code != gmerrors.ExitRuntimeError {
				t.Errorf("run() = %d, want %d", code, gmerrors.ExitRuntimeError)
			}
			if m.ExportCount() != tt.wantExports {
				t.Errorf("exports = %d, want %d", m.ExportCount(), tt.wantExports)
			}
			if strings.Contains(stderr.String(), report.Prefix) {
				t.Errorf("failed tag was reported: %q", stderr.String())
			}
		})
	}
}

func TestCmdList(t *testing.T) {
	useSession(t, heroHost())
	cfg := writeConfig(t, "{}\n")
	a, stdout, _ := newTestApp()

	if code := a.run([]string{"--config", cfg, "list", "--filepath", "hero.aseprite"}); code != 0 {
		t.Fatalf("list = %d", code)
	}
	want := "Tags in hero.aseprite:\n  1. idle (frames 0-3)\n  2. run (frames 4-9)\n"
	if stdout.String() != want {
		t.Errorf("list output = %q, want %q", stdout.String(), want)
	}
}

func TestCmdList_NothingOpen(t *testing.T) {
	useSession(t, heroHost())
	cfg := writeConfig(t, "{}\n")
	a, stdout, stderr := newTestApp()

	if code := a.run([]string{"--config", cfg, "list"}); code != 0 {
		t.Errorf("list = %d, want 0", code)
	}
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "no sprite is open") {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}

func TestCmdConfigValidate(t *testing.T) {
	cfg := writeConfig(t, "export:\n  on_error: continue\nextra: 1\n")
	a, stdout, stderr := newTestApp()

	if code := a.run([]string{"--config", cfg, "config", "validate"}); code != 0 {
		t.Fatalf("config validate = %d, stderr = %s", code, stderr.String())
	}
	for _, want := range []string{"Configuration is valid.", "=== Summary ===", "On error: continue", "Warnings: 1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
	if !strings.Contains(stderr.String(), `unknown field "extra"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCmdConfigValidate_Invalid(t *testing.T) {
	cfg := writeConfig(t, "export:\n  on_error: retry\n")
	a, _, stderr := newTestApp()

	if code := a.run([]string{"--config", cfg, "config", "validate"}); code != gmerrors.ExitConfigError {
		t.Errorf("config validate = %d, want %d", code, gmerrors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), "gmhelper: ") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCmdConfigShow(t *testing.T) {
	cfg := writeConfig(t, "split:\n  gif_delay: 8\n")
	a, stdout, _ := newTestApp()

	if code := a.run([]string{"--config", cfg, "config", "show"}); code != 0 {
		t.Fatalf("config show = %d", code)
	}
	for _, want := range []string{"gif_delay: 8", "on_error: abort", "debounce: 300ms"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestCmdConfigShow_AsepriteFlag(t *testing.T) {
	cfg := writeConfig(t, "{}\n")
	a, stdout, _ := newTestApp()

	if code := a.run([]string{"--config", cfg, "--aseprite", "/opt/aseprite", "config", "show"}); code != 0 {
		t.Fatalf("config show = %d", code)
	}
	if !strings.Contains(stdout.String(), "path: /opt/aseprite") {
		t.Errorf("output = %s", stdout.String())
	}
}

// sheetRunner plays the exporter child process for one 2-frame tag.
type sheetRunner struct {
	args []string
}

func (r *sheetRunner) Run(_ context.Context, asset, outputDir string) (*pipeline.RunOutput, error) {
	if outputDir == "" {
		outputDir = filepath.Dir(asset)
	}
	path := filepath.Join(outputDir, "sHeroIdle.png")

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}

	line := report.FormatLine(sprite.ExportResult{Path: path, Width: 4, Height: 4, FrameCount: 2, TagName: "idle"})
	return &pipeline.RunOutput{Stderr: []byte(line + "\n")}, nil
}

func useRunner(t *testing.T, r *sheetRunner) {
	t.Helper()
	old := newRunner
	newRunner = func(args []string) (pipeline.Runner, error) {
		r.args = args
		return r, nil
	}
	t.Cleanup(func() { newRunner = old })
}

func TestCmdProcess(t *testing.T) {
	r := &sheetRunner{}
	useRunner(t, r)
	cfg := writeConfig(t, "{}\n")
	dir := t.TempDir()
	asset := filepath.Join(dir, "hero.aseprite")
	a, stdout, stderr := newTestApp()

	if code := a.run([]string{"--config", cfg, "-v", "process", asset}); code != 0 {
		t.Fatalf("process = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "sHeroIdle.gif")); err != nil {
		t.Errorf("GIF not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "Done.") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if want := []string{"--config", cfg, "--verbose"}; !reflect.DeepEqual(r.args, want) {
		t.Errorf("forwarded args = %v, want %v", r.args, want)
	}
}

func TestCmdProcess_BadProject(t *testing.T) {
	useRunner(t, &sheetRunner{})
	cfg := writeConfig(t, "gamemaker:\n  project: missing-game\n")
	a, _, stderr := newTestApp()

	code := a.run([]string{"--config", cfg, "process", "hero.aseprite"})
	if code != gmerrors.ExitConfigError {
		t.Errorf("process = %d, want %d", code, gmerrors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), "gamemaker.project") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCmdProcess_RequiresFile(t *testing.T) {
	a, _, _ := newTestApp()

	if code := a.run([]string{"process"}); code != gmerrors.ExitConfigError {
		t.Errorf("process = %d, want %d", code, gmerrors.ExitConfigError)
	}
}

func TestCmdWatch_MissingDirectory(t *testing.T) {
	useRunner(t, &sheetRunner{})
	cfg := writeConfig(t, "{}\n")
	a, _, _ := newTestApp()

	code := a.run([]string{"--config", cfg, "watch", "--directory", filepath.Join(t.TempDir(), "nope")})
	if code != gmerrors.ExitConfigError {
		t.Errorf("watch = %d, want %d", code, gmerrors.ExitConfigError)
	}
}
