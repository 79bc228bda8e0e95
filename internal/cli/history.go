package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"ngramlm/config"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded perplexity runs",
	Long: `List perplexity runs recorded in .ngram/history.db, newest first.

Examples:
  ngram history
  ngram history --limit 5 --json
  ngram history rm <run-id>`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Delete recorded runs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryRm,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.HistoryDBPath(GetRootDir())); os.IsNotExist(err) {
		return fmt.Errorf("no history found. Run 'ngram perplexity' first")
	}

	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(runs) > historyLimit {
		runs = runs[:historyLimit]
	}

	if historyJSON {
		return writeJSON(runs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tN\tTRAIN\tTEST CHARS\tPERPLEXITY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.6f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Order, r.TrainHash, r.TestChars, r.Perplexity)
	}
	return w.Flush()
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, id := range args {
		if _, err := st.GetRun(id); err != nil {
			return err
		}
		if err := st.DeleteRun(id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
		fmt.Printf("Deleted %s\n", id)
	}
	return nil
}
