package model

import (
	"runtime"
	"time"
)

// Config holds every tunable of a question-answering run
type Config struct {
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Match       MatchConfig       `yaml:"match" mapstructure:"match"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// PathsConfig locates the inputs and the answers file
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" mapstructure:"data_dir"`       // text/, morph/, dep/
	ResultsDir  string `yaml:"results_dir" mapstructure:"results_dir"` // <fid>.mln, <fid>.parse
	EvalDir     string `yaml:"eval_dir" mapstructure:"eval_dir"`       // questions.*.txt, Answers.txt
	AnswersFile string `yaml:"answers_file" mapstructure:"answers_file"`
}

// MatchConfig holds the structural vocabulary shared by matcher and extractor
type MatchConfig struct {
	StructuralDeps []string `yaml:"structural_deps" mapstructure:"structural_deps"`
	Stopwords      []string `yaml:"stopwords" mapstructure:"stopwords"`
	MaxCandidates  int      `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	Workers     int `yaml:"workers" mapstructure:"workers"`           // relation shards matched in parallel
	LoadWorkers int `yaml:"load_workers" mapstructure:"load_workers"` // articles loaded in parallel
}

// CacheConfig controls argument pattern memoization
type CacheConfig struct {
	PatternTTL      time.Duration `yaml:"pattern_ttl" mapstructure:"pattern_ttl"` // 0 keeps entries for the whole run
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level          string  `yaml:"level" mapstructure:"level"`
	Format         string  `yaml:"format" mapstructure:"format"`
	SkipLogsPerSec float64 `yaml:"skip_logs_per_sec" mapstructure:"skip_logs_per_sec"`
}

// MetricsConfig controls the end-of-run metrics textfile
type MetricsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:     ".",
			ResultsDir:  ".",
			EvalDir:     ".",
			AnswersFile: "Answers.txt",
		},
		Match: MatchConfig{
			StructuralDeps: []string{"nn", "amod", "prep_of", "num", "appos"},
			Stopwords:      []string{"the", "of", "in"},
			MaxCandidates:  256,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     runtime.NumCPU(),
			LoadWorkers: 8,
		},
		Cache: CacheConfig{
			PatternTTL:      0,
			CleanupInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			SkipLogsPerSec: 5,
		},
	}
}
