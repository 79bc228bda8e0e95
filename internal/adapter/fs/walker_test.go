package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "second")
	writeFile(t, filepath.Join(root, "a.txt"), "first")
	writeFile(t, filepath.Join(root, "nested", "c.txt"), "third")
	writeFile(t, filepath.Join(root, "notes.md"), "ignored")
	writeFile(t, filepath.Join(root, "skip", "d.txt"), "excluded")

	w := NewWalker([]string{"**/*.txt"}, []string{"**/skip/**"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f.Path)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}

	expected := []string{"a.txt", "b.txt", "nested/c.txt"}
	if len(rel) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, rel)
	}
	for i := range expected {
		if rel[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], rel[i])
		}
	}
}

func TestWalker_DefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.go"), "package x")
	writeFile(t, filepath.Join(root, "y.txt"), "y")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestReader_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	writeFile(t, path, "Hello there.")

	content, err := Reader{}.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "Hello there." {
		t.Errorf("unexpected content %q", content)
	}

	if _, err := (Reader{}).ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
