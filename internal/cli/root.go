package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// Version is the release printed by the version command
var Version = "v0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "usp",
	Short: "USP question answering over a relational clustering",
	Long: `usp answers "What does X verb?" and "What verbs X?" questions from the
output of an unsupervised semantic parsing run.

It reads the clustered parts and argument clusters of the run together with
the morphology and dependency parses of the corpus, finds every relation
instance whose argument matches the question, and writes the phrases found
in the complementary argument as answers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("usp %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.usp/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".usp"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match USP_*, e.g. USP_PATHS_DATA_DIR
	viper.SetEnvPrefix("USP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so env variables reach Unmarshal
func setDefaults(cfg *model.Config) {
	viper.SetDefault("paths.data_dir", cfg.Paths.DataDir)
	viper.SetDefault("paths.results_dir", cfg.Paths.ResultsDir)
	viper.SetDefault("paths.eval_dir", cfg.Paths.EvalDir)
	viper.SetDefault("paths.answers_file", cfg.Paths.AnswersFile)
	viper.SetDefault("match.structural_deps", cfg.Match.StructuralDeps)
	viper.SetDefault("match.stopwords", cfg.Match.Stopwords)
	viper.SetDefault("match.max_candidates", cfg.Match.MaxCandidates)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("concurrency.load_workers", cfg.Concurrency.LoadWorkers)
	viper.SetDefault("cache.pattern_ttl", cfg.Cache.PatternTTL)
	viper.SetDefault("cache.cleanup_interval", cfg.Cache.CleanupInterval)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
	viper.SetDefault("logging.skip_logs_per_sec", cfg.Logging.SkipLogsPerSec)
	viper.SetDefault("metrics.file", cfg.Metrics.File)
}

// loadConfig merges defaults, config file, env and bound flags, then
// installs the logger and returns the run id
func loadConfig() (*model.Config, string, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	runID := logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, runID, nil
}
