package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"ngramlm/internal/adapter/estimator"
	"ngramlm/internal/domain"
)

var (
	estimateText      string
	estimateFile      string
	estimateOrder     int
	estimateSmoothing string
	estimateQuery     []string
	estimateJSON      bool
	estimateStats     bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate n-gram probabilities of a corpus",
	Long: `Estimate P(token | context) for every n-gram of the corpus.

With --query, score the given n-grams instead of printing the table; under
additive smoothing unseen n-grams get a non-zero probability.

Examples:
  ngram estimate -f corpus.txt -n 2
  ngram estimate -f corpus.txt -n 2 --smoothing additive --query "on my" --query "zebra runs"`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringVarP(&estimateText, "text", "t", "", "corpus text")
	estimateCmd.Flags().StringVarP(&estimateFile, "file", "f", "", "corpus file or directory")
	estimateCmd.Flags().IntVarP(&estimateOrder, "order", "n", 0, "model order (default from config)")
	estimateCmd.Flags().StringVar(&estimateSmoothing, "smoothing", "", "none or additive (default from config)")
	estimateCmd.Flags().StringArrayVarP(&estimateQuery, "query", "q", nil, "n-gram to score, tokens separated by spaces (repeatable)")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "output as JSON")
	estimateCmd.Flags().BoolVar(&estimateStats, "stats", false, "print model statistics")
}

type queryResult struct {
	NGram       string  `json:"ngram"`
	Probability float64 `json:"probability"`
	Error       string  `json:"error,omitempty"`
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	corpus, err := loadCorpus("corpus", estimateText, estimateFile)
	if err != nil {
		return err
	}

	smoothing := cfg.Model.Smoothing
	if estimateSmoothing != "" {
		smoothing = estimateSmoothing
	}
	smoother, err := estimator.SmootherFor(smoothing)
	if err != nil {
		return err
	}

	evalUC, closer, err := newEvaluateUseCase(false)
	if err != nil {
		return err
	}
	defer closer()

	model, err := evalUC.Train(cmd.Context(), corpus, resolveOrder(estimateOrder), smoother)
	if err != nil {
		return err
	}

	if estimateStats {
		stats := model.Stats()
		fmt.Fprintf(os.Stderr, "Model: n=%d smoother=%s\n", stats.N, stats.SmootherName)
		fmt.Fprintf(os.Stderr, "  Tokens:     %d (%d distinct)\n", stats.TotalTokens, stats.DistinctTokens)
		fmt.Fprintf(os.Stderr, "  Vocabulary: %.6f\n", stats.VocabularySize)
		fmt.Fprintf(os.Stderr, "  N-grams:    %d\n", stats.NGramCount)
		fmt.Fprintf(os.Stderr, "  Contexts:   %d\n", stats.ContextCount)
	}

	if len(estimateQuery) > 0 {
		results := make([]queryResult, 0, len(estimateQuery))
		for _, q := range estimateQuery {
			gram := domain.ParseNGram(q)
			r := queryResult{NGram: gram.String()}
			p, err := model.Probability(gram)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Probability = p
			}
			results = append(results, r)
		}
		if estimateJSON {
			return writeJSON(results)
		}
		for _, r := range results {
			if r.Error != "" {
				fmt.Printf("%-40s error: %s\n", r.NGram, r.Error)
				continue
			}
			fmt.Printf("%-40s %.10f\n", r.NGram, r.Probability)
		}
		return nil
	}

	table, err := model.Table()
	if err != nil {
		return err
	}

	entries := table.Entries()
	if estimateJSON {
		return writeJSON(entries)
	}
	for _, e := range entries {
		fmt.Printf("%-40s %.10f\n", e.NGram, e.Probability)
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
