package usecase

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"ngramlm/internal/port"
)

// ProgressCallback is called after each corpus file is read.
type ProgressCallback func(processed, total int, currentFile string)

// CorpusUseCase assembles corpus text from a file or a directory tree.
type CorpusUseCase struct {
	walker port.FileWalker
	reader port.FileReader
	logger *zap.Logger
}

// NewCorpusUseCase creates a new corpus use case.
func NewCorpusUseCase(walker port.FileWalker, reader port.FileReader, logger *zap.Logger) *CorpusUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorpusUseCase{
		walker: walker,
		reader: reader,
		logger: logger,
	}
}

// CorpusResult contains the assembled corpus.
type CorpusResult struct {
	Text   string
	Files  []string
	Errors []string
}

// Load reads path. A directory is walked and its matching files are joined
// with newlines in path order; a newline is not a sentence boundary.
func (u *CorpusUseCase) Load(path string, progress ProgressCallback) (*CorpusResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("corpus path does not exist: %w", err)
	}

	if !info.IsDir() {
		text, err := u.reader.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus: %w", err)
		}
		return &CorpusResult{Text: text, Files: []string{path}}, nil
	}

	files, err := u.walker.Walk(path)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no corpus files matched under %s", path)
	}

	result := &CorpusResult{}
	parts := make([]string, 0, len(files))
	for i, file := range files {
		text, err := u.reader.ReadFile(file.Path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", file.Path, err))
			u.logger.Warn("skipping corpus file", zap.String("path", file.Path), zap.Error(err))
		} else {
			parts = append(parts, text)
			result.Files = append(result.Files, file.Path)
		}
		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	result.Text = strings.Join(parts, "\n")
	u.logger.Debug("corpus loaded",
		zap.String("root", path),
		zap.Int("files", len(result.Files)),
		zap.Int("bytes", len(result.Text)),
	)
	return result, nil
}
