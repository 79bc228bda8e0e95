package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ngramlm/internal/adapter/fs"
	"ngramlm/internal/port"
)

type flakyReader struct {
	fail string
}

func (r flakyReader) ReadFile(path string) (string, error) {
	if filepath.Base(path) == r.fail {
		return "", errors.New("permission denied")
	}
	return fs.Reader{}.ReadFile(path)
}

var _ port.FileReader = flakyReader{}

func TestCorpusUseCase_LoadDirectory(t *testing.T) {
	root := t.TempDir()
	for name, content := range map[string]string{
		"a.txt": "First file.",
		"b.txt": "Second file.",
		"c.md":  "Not included.",
	} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var calls int
	uc := NewCorpusUseCase(fs.NewWalker([]string{"**/*.txt"}, nil), fs.Reader{}, nil)
	result, err := uc.Load(root, func(processed, total int, _ string) {
		calls++
		if total != 2 || processed != calls {
			t.Errorf("unexpected progress %d/%d", processed, total)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Text != "First file.\nSecond file." {
		t.Errorf("unexpected corpus %q", result.Text)
	}
	if len(result.Files) != 2 || calls != 2 {
		t.Errorf("expected 2 files and 2 progress calls, got %d and %d", len(result.Files), calls)
	}
}

func TestCorpusUseCase_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("Only file."), 0644); err != nil {
		t.Fatal(err)
	}

	uc := NewCorpusUseCase(fs.NewWalker(nil, nil), fs.Reader{}, nil)
	result, err := uc.Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "Only file." {
		t.Errorf("unexpected corpus %q", result.Text)
	}
}

func TestCorpusUseCase_Errors(t *testing.T) {
	root := t.TempDir()
	uc := NewCorpusUseCase(fs.NewWalker([]string{"**/*.txt"}, nil), flakyReader{fail: "bad.txt"}, nil)

	if _, err := uc.Load(filepath.Join(root, "missing"), nil); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := uc.Load(root, nil); err == nil {
		t.Error("expected error for directory without matching files")
	}

	for _, name := range []string{"bad.txt", "good.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	result, err := uc.Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 || result.Text != "good.txt" {
		t.Errorf("expected one skipped file, got %+v", result)
	}
}
