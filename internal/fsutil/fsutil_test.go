package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()
	b, err := ReadFile(filepath.Join(t.TempDir(), "missing"))
	if err != nil || b != nil {
		t.Errorf("ReadFile() = %v, %v; want nil, nil", b, err)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yyp")

	if err := WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	b, err := ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Errorf("ReadFile() = %q, %v; want two", b, err)
	}
	if !Equal(path, []byte("two")) {
		t.Error("Equal() = false, want true")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteWith_FailureKeepsTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.gif")
	if err := WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("encode failed")
	err := WriteWith(path, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("WriteWith() error = %v, want %v", err, boom)
	}
	if !Equal(path, []byte("old")) {
		t.Error("failed write replaced the target")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestSameFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	_ = os.WriteFile(a, nil, 0o644)
	_ = os.WriteFile(b, nil, 0o644)

	if !SameFile(a, filepath.Join(dir, ".", "a.png")) {
		t.Error("SameFile(a, ./a) = false")
	}
	if SameFile(a, b) {
		t.Error("SameFile(a, b) = true")
	}
	if !SameFile(filepath.Join(dir, "x", "..", "gone.png"), filepath.Join(dir, "gone.png")) {
		t.Error("SameFile() on missing files does not compare cleaned paths")
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")
	_ = os.WriteFile(src, []byte("pixels"), 0o644)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if !Equal(dst, []byte("pixels")) {
		t.Error("CopyFile() content mismatch")
	}
}
