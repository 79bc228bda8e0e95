package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	scoreTrainText string
	scoreTrainFile string
	scoreTestText  string
	scoreTestFile  string
	scoreOrder     int
	scoreJSON      bool
	scoreNoHistory bool
)

var likelihoodCmd = &cobra.Command{
	Use:   "likelihood",
	Short: "Score the likelihood of test text under a trained model",
	Long: `Train an unsmoothed model on the training corpus and multiply the
probabilities of every n-gram of the test text, left to right.

Examples:
  ngram likelihood --train-file corpus.txt --test "I like" -n 2`,
	RunE: runLikelihood,
}

var perplexityCmd = &cobra.Command{
	Use:   "perplexity",
	Short: "Compute the perplexity of test text under a trained model",
	Long: `Compute likelihood^(-1/N), N being the number of non-whitespace
characters of the test text. The run is recorded in .ngram/history.db unless
history is disabled.

Examples:
  ngram perplexity --train-file corpus/ --test-file heldout.txt -n 3
  ngram perplexity --train "I like Python programming." --test "I like" --json`,
	RunE: runPerplexity,
}

func init() {
	for _, c := range []*cobra.Command{likelihoodCmd, perplexityCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&scoreTrainText, "train", "", "training corpus text")
		c.Flags().StringVar(&scoreTrainFile, "train-file", "", "training corpus file or directory")
		c.Flags().StringVar(&scoreTestText, "test", "", "test text")
		c.Flags().StringVar(&scoreTestFile, "test-file", "", "test file or directory")
		c.Flags().IntVarP(&scoreOrder, "order", "n", 0, "model order (default from config)")
		c.Flags().BoolVar(&scoreJSON, "json", false, "output as JSON")
	}
	perplexityCmd.Flags().BoolVar(&scoreNoHistory, "no-history", false, "do not record the run")
}

func loadScoreCorpora() (string, string, error) {
	train, err := loadCorpus("training corpus", scoreTrainText, scoreTrainFile)
	if err != nil {
		return "", "", err
	}
	test, err := loadCorpus("test corpus", scoreTestText, scoreTestFile)
	if err != nil {
		return "", "", err
	}
	return train, test, nil
}

func runLikelihood(cmd *cobra.Command, args []string) error {
	train, test, err := loadScoreCorpora()
	if err != nil {
		return err
	}

	evalUC, closer, err := newEvaluateUseCase(false)
	if err != nil {
		return err
	}
	defer closer()

	n := resolveOrder(scoreOrder)
	likelihood, err := evalUC.Likelihood(cmd.Context(), train, test, n)
	if err != nil {
		return err
	}

	if scoreJSON {
		return writeJSON(map[string]any{"order": n, "likelihood": likelihood})
	}
	fmt.Printf("%.17g\n", likelihood)
	return nil
}

func runPerplexity(cmd *cobra.Command, args []string) error {
	train, test, err := loadScoreCorpora()
	if err != nil {
		return err
	}

	evalUC, closer, err := newEvaluateUseCase(!scoreNoHistory)
	if err != nil {
		return err
	}
	defer closer()

	run, err := evalUC.Evaluate(cmd.Context(), train, test, resolveOrder(scoreOrder))
	if err != nil {
		return err
	}

	if scoreJSON {
		return writeJSON(run)
	}
	fmt.Printf("Perplexity: %.17g\n", run.Perplexity)
	fmt.Printf("Likelihood: %.17g\n", run.Likelihood)
	fmt.Printf("  Order:        %d\n", run.Order)
	fmt.Printf("  Test chars:   %d\n", run.TestChars)
	fmt.Printf("  Test n-grams: %d\n", run.TestNGrams)
	return nil
}
