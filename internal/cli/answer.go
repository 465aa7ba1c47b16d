package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gallupBenRyan/multivac/internal/model"
	"github.com/gallupBenRyan/multivac/internal/pipeline"
)

var answerTimeout time.Duration

// answerCmd represents the answer command
var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer the evaluation questions and write the answers file",
	Long: `Answer loads the clustering run and corpus parses, answers every question
of the evaluation directory and writes one block per answer.

Inputs:
  <data-dir>/morph/*.input, *.morph   token forms and lemmas
  <data-dir>/dep/*.dep                typed dependencies
  <data-dir>/text/*.txt               sentence text (optional)
  <results-dir>/<run>.mln, <run>.parse clusters and parts, <run> = base name of data-dir
  <eval-dir>/questions.sbj.txt        What does <argument> <verb>?
  <eval-dir>/questions.obj.txt        What <verbs> <argument>? (optional)

Example:
  usp answer --data-dir genia --results-dir results --eval-dir eval
  usp answer --data-dir genia --workers 16 --metrics-file usp.prom`,
	Args: cobra.NoArgs,
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)

	// Path flags
	answerCmd.Flags().String("data-dir", ".", "corpus directory with morph/, dep/ and text/")
	answerCmd.Flags().String("results-dir", ".", "directory with the .mln and .parse files")
	answerCmd.Flags().String("eval-dir", ".", "directory with the question files")
	answerCmd.Flags().String("answers-file", "Answers.txt", "answers file, relative to eval-dir")

	// Run flags
	answerCmd.Flags().Int("workers", 0, "relation shards matched in parallel (default: number of CPUs)")
	answerCmd.Flags().Int("max-candidates", 0, "cap on enumerated answer candidates per node")
	answerCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this file")
	answerCmd.Flags().DurationVar(&answerTimeout, "timeout", 0, "abort the run after this long (0 = no limit)")

	// Bind flags to viper
	bind := map[string]string{
		"paths.data_dir":       "data-dir",
		"paths.results_dir":    "results-dir",
		"paths.eval_dir":       "eval-dir",
		"paths.answers_file":   "answers-file",
		"concurrency.workers":  "workers",
		"match.max_candidates": "max-candidates",
		"metrics.file":         "metrics-file",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, answerCmd.Flags().Lookup(flag))
	}
}

func runAnswer(cmd *cobra.Command, args []string) error {
	cfg, runID, err := loadConfig()
	if err != nil {
		return err
	}
	defaults := model.DefaultConfig()
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = defaults.Concurrency.Workers
	}
	if cfg.Match.MaxCandidates <= 0 {
		cfg.Match.MaxCandidates = defaults.Match.MaxCandidates
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if answerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, answerTimeout)
		defer cancel()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  USP Question Answering\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Data dir:     %s\n", cfg.Paths.DataDir)
	fmt.Fprintf(os.Stderr, "  Results dir:  %s\n", cfg.Paths.ResultsDir)
	fmt.Fprintf(os.Stderr, "  Eval dir:     %s\n", cfg.Paths.EvalDir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg)
	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Run Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Questions:  %d answerable, %d ignored\n", len(result.Questions), len(result.Ignored))
	fmt.Fprintf(os.Stderr, "  Parts:      %d examined, %d matched, %d negated\n", result.Stats.Parts, result.Stats.Matched, result.Stats.Negated)
	fmt.Fprintf(os.Stderr, "  Answers:    %d\n", result.Written)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", result.AnswersPath)
	fmt.Fprintf(os.Stderr, "  Duration:   %v\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
