package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Order != 2 {
		t.Errorf("expected Order=2, got %d", cfg.Model.Order)
	}
	if cfg.Model.Smoothing != "none" {
		t.Errorf("expected Smoothing=none, got %s", cfg.Model.Smoothing)
	}
	if cfg.Model.Shards != 1 {
		t.Errorf("expected Shards=1, got %d", cfg.Model.Shards)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled by default")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected Level=warn, got %s", cfg.Logging.Level)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ngram.yaml")

	content := `
model:
  order: 3
  smoothing: additive
history:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Order != 3 {
		t.Errorf("expected Order=3, got %d", cfg.Model.Order)
	}
	if cfg.Model.Smoothing != "additive" {
		t.Errorf("expected Smoothing=additive, got %s", cfg.Model.Smoothing)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled")
	}
	if cfg.Model.Shards != 1 {
		t.Errorf("expected unset Shards to keep default 1, got %d", cfg.Model.Shards)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ngram.yaml")
	if err := os.WriteFile(configPath, []byte("model: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureNgramDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".ngram", "config.yaml")

	content := `
model:
  shards: 4
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Shards != 4 {
		t.Errorf("expected Shards=4, got %d", cfg.Model.Shards)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "ngram.yaml")

	cfg := DefaultConfig()
	cfg.Model.Order = 4
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Model.Order != 4 {
		t.Errorf("expected Order=4, got %d", loaded.Model.Order)
	}
}

func TestHistoryDBPath(t *testing.T) {
	path := HistoryDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".ngram", "history.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
