package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"ngramlm/internal/adapter/analyzer"
)

var (
	tokenizeText  string
	tokenizeFile  string
	tokenizeOrder int
	tokenizeJSON  bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Split text into sentence-bounded tokens",
	Long: `Normalize text and print its token sequence with START/END sentinels.

Examples:
  ngram tokenize -t "I like Python programming." -n 3
  ngram tokenize -f corpus.txt --json`,
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVarP(&tokenizeText, "text", "t", "", "text to tokenize")
	tokenizeCmd.Flags().StringVarP(&tokenizeFile, "file", "f", "", "corpus file or directory")
	tokenizeCmd.Flags().IntVarP(&tokenizeOrder, "order", "n", 0, "model order (default from config)")
	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "output as JSON")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	text, err := loadCorpus("corpus", tokenizeText, tokenizeFile)
	if err != nil {
		return err
	}

	evalUC, closer, err := newEvaluateUseCase(false)
	if err != nil {
		return err
	}
	defer closer()

	tokens, err := evalUC.Tokenize(text, resolveOrder(tokenizeOrder))
	if err != nil {
		return err
	}

	if tokenizeJSON {
		return writeJSON(tokens)
	}

	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	fmt.Println(strings.Join(parts, " "))
	fmt.Fprintf(os.Stderr, "%d tokens, %d sentences\n", len(tokens), analyzer.SentenceCount(tokens))
	return nil
}
