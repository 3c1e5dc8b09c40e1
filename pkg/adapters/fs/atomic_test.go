package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "post.md")

	if err := writeFileAtomic(target, []byte("v1"), 0644); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v1" {
		t.Errorf("expected 'v1', got %q", data)
	}

	// Overwrite
	if err := writeFileAtomic(target, []byte("v2"), 0644); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(target)
	if string(data) != "v2" {
		t.Errorf("expected 'v2', got %q", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "does-not-exist", "post.md")

	if err := writeFileAtomic(target, []byte("x"), 0644); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
