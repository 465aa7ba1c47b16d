package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gallupBenRyan/multivac/internal/report"
)

var summaryTop int

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary <answers-file>",
	Short: "Count the answers per question of an answers file",
	Long: `Summary reads an answers file written by 'usp answer' and prints, per
question, the number of answers and of distinct source sentences.

Example:
  usp summary eval/Answers.txt
  usp summary eval/Answers.txt --top 20`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().IntVar(&summaryTop, "top", 0, "only show the questions with the most answers (0 = all)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open answers file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := report.ReadAnswers(f)
	if err != nil {
		return err
	}
	s := report.Summarize(entries)

	questions := append([]string(nil), s.Questions...)
	if summaryTop > 0 {
		sort.SliceStable(questions, func(i, j int) bool {
			return s.Answers[questions[i]] > s.Answers[questions[j]]
		})
		if len(questions) > summaryTop {
			questions = questions[:summaryTop]
		}
	}

	for _, q := range questions {
		fmt.Printf("%6d  %6d  %s\n", s.Answers[q], s.Sentences[q], q)
	}
	fmt.Printf("\n%d answers to %d questions\n", s.Total, len(s.Questions))

	return nil
}
