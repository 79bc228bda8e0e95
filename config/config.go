package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the n-gram tool.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModelConfig holds model training configuration.
type ModelConfig struct {
	Order     int    `yaml:"order"`
	Smoothing string `yaml:"smoothing"` // "none" or "additive"
	Shards    int    `yaml:"shards"`    // concurrent counting shards (<= 1 = sequential)
}

// CorpusConfig selects corpus files when a directory is given.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// HistoryConfig controls recording of evaluation runs.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Order:     2,
			Smoothing: "none",
			Shards:    1,
		},
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/.ngram/**", "**/node_modules/**", "**/vendor/**"},
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ngram.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ngram.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".ngram", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// HistoryDBPath returns the path to the run history database.
func HistoryDBPath(dir string) string {
	return filepath.Join(dir, ".ngram", "history.db")
}

// EnsureNgramDir ensures the .ngram directory exists.
func EnsureNgramDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".ngram"), 0755)
}
