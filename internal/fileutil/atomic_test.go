package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "q_table.msgp")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %o, want %o", info.Mode().Perm(), 0o600)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "q_table.msgp")
	if err := WriteFileAtomic(path, []byte("data"), 0o644); err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestReadFileIfExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data, ok, err := ReadFileIfExists(filepath.Join(dir, "absent"))
	if err != nil || ok || data != nil {
		t.Fatalf("missing file: data=%q ok=%v err=%v", data, ok, err)
	}

	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("table"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, ok, err = ReadFileIfExists(path)
	if err != nil || !ok || string(data) != "table" {
		t.Fatalf("present file: data=%q ok=%v err=%v", data, ok, err)
	}

	if _, _, err := ReadFileIfExists(dir); err == nil {
		t.Error("reading a directory should fail")
	}
}
