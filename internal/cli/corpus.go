package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"ngramlm/config"
	"ngramlm/internal/adapter/analyzer"
	"ngramlm/internal/adapter/fs"
	"ngramlm/internal/adapter/store"
	"ngramlm/internal/port"
	"ngramlm/internal/usecase"
)

// loadCorpus returns text when set, otherwise the contents of path (a file or
// a directory walked with the configured globs).
func loadCorpus(label, text, path string) (string, error) {
	if text != "" && path != "" {
		return "", fmt.Errorf("%s: give either text or a file, not both", label)
	}
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", fmt.Errorf("%s: no corpus given", label)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(GetRootDir(), path)
	}

	cfg := GetConfig()
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	corpusUC := usecase.NewCorpusUseCase(walker, fs.Reader{}, GetLogger())

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progress := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Reading %s[reset]", label)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := corpusUC.Load(path, progress)
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}
	return result.Text, nil
}

// resolveOrder prefers an explicit -n over the configured model order.
func resolveOrder(flagOrder int) int {
	if flagOrder != 0 {
		return flagOrder
	}
	return GetConfig().Model.Order
}

// newEvaluateUseCase wires the evaluator. When withHistory is set and history
// is enabled, runs are recorded in .ngram/history.db; the returned closer
// must be called.
func newEvaluateUseCase(withHistory bool) (*usecase.EvaluateUseCase, func(), error) {
	cfg := GetConfig()
	tokenizer := analyzer.NewTokenizer()

	var runs port.RunStore
	closer := func() {}

	if withHistory && cfg.History.Enabled {
		st, err := openHistory()
		if err != nil {
			return nil, nil, err
		}
		runs = st
		closer = func() { st.Close() }
	}

	return usecase.NewEvaluateUseCase(tokenizer, runs, cfg.Model.Shards, GetLogger()), closer, nil
}

func openHistory() (*store.BoltStore, error) {
	dir := GetRootDir()
	if err := config.EnsureNgramDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create .ngram directory: %w", err)
	}
	st, err := store.Open(config.HistoryDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return st, nil
}
