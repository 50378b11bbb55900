package report

import (
	"strings"
	"testing"

	"github.com/gmhelper/gmhelper/internal/sprite"
)

func TestParseLine(t *testing.T) {
	want := sprite.ExportResult{Path: `C:\out\s.png`, Width: 16, Height: 16, FrameCount: 3, TagName: `he said "hi"`}

	got, ok, err := ParseLine(FormatLine(want) + "\r\n")
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	if !ok {
		t.Fatal("ParseLine() ok = false, want true")
	}
	if got != want {
		t.Errorf("ParseLine() = %+v, want %+v", got, want)
	}
}

func TestParseLine_NotAResult(t *testing.T) {
	for _, line := range []string{"", "Processing hero.aseprite", " JSON_EXPORT:{}", "json_export:{}"} {
		_, ok, err := ParseLine(line)
		if ok || err != nil {
			t.Errorf("ParseLine(%q) = ok %v, err %v; want not a result", line, ok, err)
		}
	}
}

func TestParseLine_Malformed(t *testing.T) {
	for _, line := range []string{
		`JSON_EXPORT:`,
		`JSON_EXPORT:{"path":"a.png"`,
		`JSON_EXPORT:{"path":"a.png","width":1,"height":1,"tag_name":"x"}`,
	} {
		_, ok, err := ParseLine(line)
		if !ok {
			t.Errorf("ParseLine(%q) ok = false, want true", line)
		}
		if err == nil {
			t.Errorf("ParseLine(%q) expected error", line)
		}
	}
}

func TestScan(t *testing.T) {
	idle := sprite.ExportResult{Path: "out/sHeroIdle.png", Width: 16, Height: 16, FrameCount: 4, TagName: "idle"}
	run := sprite.ExportResult{Path: "out/sHeroRun.png", Width: 16, Height: 16, FrameCount: 6, TagName: "run"}

	stream := strings.Join([]string{
		"Running: aseprite -b ...",
		FormatLine(idle),
		"",
		"   ",
		`JSON_EXPORT:{"broken"`,
		FormatLine(run),
		"done",
	}, "\n")

	var passed []string
	results, errs := Scan(strings.NewReader(stream), func(line string) {
		passed = append(passed, line)
	})

	if len(results) != 2 || results[0] != idle || results[1] != run {
		t.Errorf("results = %+v, want [idle run]", results)
	}
	if len(errs) != 1 {
		t.Errorf("len(errs) = %d, want 1", len(errs))
	}
	if len(passed) != 2 || passed[0] != "Running: aseprite -b ..." || passed[1] != "done" {
		t.Errorf("passthrough = %q", passed)
	}
}

func TestScan_NilPassthrough(t *testing.T) {
	results, errs := Scan(strings.NewReader("noise\n"), nil)
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("Scan() = %v, %v; want nothing", results, errs)
	}
}
