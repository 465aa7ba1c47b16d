package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gallupBenRyan/multivac/internal/extract"
	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/load"
	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/match"
	"github.com/gallupBenRyan/multivac/internal/metrics"
	"github.com/gallupBenRyan/multivac/internal/model"
	"github.com/gallupBenRyan/multivac/internal/pattern"
	"github.com/gallupBenRyan/multivac/internal/report"
	"github.com/gallupBenRyan/multivac/internal/worker"
)

// Engine answers questions against one loaded knowledge base
type Engine struct {
	kb        *kb.KnowledgeBase
	compiler  *pattern.Compiler
	relations *match.RelationMatcher
	workers   int
	logger    *slog.Logger
}

// NewEngine wires the compiler, matchers and extractor over k
func NewEngine(k *kb.KnowledgeBase, cfg *model.Config) *Engine {
	rules := kb.NewDepRules(cfg.Match.StructuralDeps)
	compiler := pattern.NewCompiler(k, cfg.Match.Stopwords, cfg.Cache)
	subtree := match.NewSubtreeMatcher(k, rules, compiler)
	extractor := extract.NewAnswerExtractor(k, rules, cfg.Match.MaxCandidates)
	throttle := logger.NewThrottle(cfg.Logging.SkipLogsPerSec, 0)

	return &Engine{
		kb:        k,
		compiler:  compiler,
		relations: match.NewRelationMatcher(k, subtree, extractor, throttle),
		workers:   cfg.Concurrency.Workers,
		logger:    logger.WithComponent("engine"),
	}
}

// Compiler returns the argument pattern compiler
func (e *Engine) Compiler() *pattern.Compiler {
	return e.compiler
}

// Prepare drops the questions whose argument cannot be compiled and returns
// the remaining groups, empty groups removed, plus the dropped questions.
func (e *Engine) Prepare(groups []model.RelationQuestions) ([]model.RelationQuestions, []model.Question) {
	var active []model.RelationQuestions
	var ignored []model.Question

	for _, g := range groups {
		qs, skipped := e.compiler.Prepare(g.Questions)
		for _, q := range skipped {
			e.logger.Info("question ignored", "question", q.String(), "argument", q.Argument)
		}
		ignored = append(ignored, skipped...)
		if len(qs) > 0 {
			active = append(active, model.RelationQuestions{Relation: g.Relation, Questions: qs})
		}
	}
	return active, ignored
}

// MatchAll matches each relation group on its own worker and merges the
// shard answers in group order.
func (e *Engine) MatchAll(ctx context.Context, groups []model.RelationQuestions) (*model.Answers, match.Stats, error) {
	processor := worker.NewShardProcessor(e.relations, e.workers)
	results := processor.ProcessGroups(ctx, groups)

	answers, stats, err := worker.Merge(results)
	if err == nil {
		err = ctx.Err()
	}
	return answers, stats, err
}

// Pipeline runs a complete answering pass: load, compile, match, write
type Pipeline struct {
	config  *model.Config
	loader  *load.Loader
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	return &Pipeline{
		config:  cfg,
		loader:  load.NewLoader(cfg.Paths, cfg.Concurrency.LoadWorkers),
		metrics: metrics.New(),
		logger:  logger.WithComponent("pipeline"),
	}
}

// Metrics returns the collectors updated by Run
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// RunResult contains the outcome of a run
type RunResult struct {
	Questions   []model.Question // answerable questions in file order
	Ignored     []model.Question
	Answers     *model.Answers
	Stats       match.Stats
	Written     int
	AnswersPath string
	Duration    time.Duration
}

// AnswersPath returns where the answers file is written
func (p *Pipeline) AnswersPath() string {
	if filepath.IsAbs(p.config.Paths.AnswersFile) {
		return p.config.Paths.AnswersFile
	}
	return filepath.Join(p.config.Paths.EvalDir, p.config.Paths.AnswersFile)
}

// Run answers every question of the evaluation directory and writes the
// answers file
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	// 1. Questions
	stage := time.Now()
	book, err := load.LoadQuestions(p.config.Paths.EvalDir)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	p.metrics.ObserveStage("questions", stage)
	p.logger.Info("questions loaded", "questions", book.Len(), "relations", len(book.Groups()))

	// 2. Knowledge base
	stage = time.Now()
	k, err := p.loader.Load(ctx, load.QuestionForms(book))
	if err != nil {
		return nil, err
	}
	p.metrics.ObserveStage("load", stage)
	st := k.Stats()
	p.metrics.KnowledgeBase.WithLabelValues("forms").Set(float64(st.Forms))
	p.metrics.KnowledgeBase.WithLabelValues("lemmas").Set(float64(st.Lemmas))
	p.metrics.KnowledgeBase.WithLabelValues("relations").Set(float64(st.Relations))
	p.metrics.KnowledgeBase.WithLabelValues("nodes").Set(float64(st.Nodes))
	p.metrics.KnowledgeBase.WithLabelValues("sentences").Set(float64(st.Sentences))

	// 3. Argument patterns
	stage = time.Now()
	engine := NewEngine(k, p.config)
	groups, ignored := engine.Prepare(book.Groups())
	var questions []model.Question
	for _, g := range groups {
		questions = append(questions, g.Questions...)
	}
	p.metrics.ObserveStage("compile", stage)
	p.metrics.QuestionsTotal.WithLabelValues("active").Add(float64(len(questions)))
	p.metrics.QuestionsTotal.WithLabelValues("ignored").Add(float64(len(ignored)))

	// 4. Match relation shards
	stage = time.Now()
	answers, stats, err := engine.MatchAll(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("match relations: %w", err)
	}
	p.metrics.ObserveStage("match", stage)
	p.metrics.ObserveMatch(stats)
	hits, misses := engine.Compiler().CacheStats()
	p.metrics.PatternCacheHits.Add(float64(hits))
	p.metrics.PatternCacheMiss.Add(float64(misses))
	p.logger.Info("relations matched", "parts", stats.Parts, "matched", stats.Matched,
		"negated", stats.Negated, "missing_relations", stats.MissingRelations,
		"missing_slots", stats.MissingSlots, "answers", stats.Answers)

	// 5. Answers file
	stage = time.Now()
	path := p.AnswersPath()
	written, err := report.NewWriter(k).WriteFile(path, questions, answers)
	if err != nil {
		return nil, err
	}
	p.metrics.ObserveStage("write", stage)
	p.logger.Info("answers written", "file", path, "blocks", written)

	result := &RunResult{
		Questions:   questions,
		Ignored:     ignored,
		Answers:     answers,
		Stats:       stats,
		Written:     written,
		AnswersPath: path,
		Duration:    time.Since(start),
	}
	p.metrics.ObserveStage("total", start)

	// 6. Metrics
	if p.config.Metrics.File != "" {
		if err := p.metrics.WriteFile(p.config.Metrics.File); err != nil {
			return result, err
		}
		p.logger.Info("metrics written", "file", p.config.Metrics.File)
	}

	return result, nil
}
