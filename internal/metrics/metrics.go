// Package metrics defines the Prometheus collectors of an answering run and
// writes them to a text file for the node exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gallupBenRyan/multivac/internal/match"
)

// Metrics holds all collectors of one run.
type Metrics struct {
	registry *prometheus.Registry

	QuestionsTotal   *prometheus.CounterVec
	PartsTotal       *prometheus.CounterVec
	AnswersTotal     prometheus.Counter
	MissingTotal     *prometheus.CounterVec
	PatternCacheHits prometheus.Counter
	PatternCacheMiss prometheus.Counter
	KnowledgeBase    *prometheus.GaugeVec
	StageDuration    *prometheus.GaugeVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QuestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usp_questions_total",
				Help: "Questions read, by status (active, ignored).",
			},
			[]string{"status"},
		),
		PartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usp_parts_total",
				Help: "Relation parts examined, by outcome.",
			},
			[]string{"outcome"},
		),
		AnswersTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "usp_answers_total",
				Help: "Distinct answers found.",
			},
		),
		MissingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usp_missing_total",
				Help: "Questions skipped for a missing mapping, by kind (relation, slot).",
			},
			[]string{"kind"},
		),
		PatternCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "usp_pattern_cache_hits_total",
				Help: "Phrase compilations served from the memo.",
			},
		),
		PatternCacheMiss: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "usp_pattern_cache_misses_total",
				Help: "Phrase compilations computed.",
			},
		),
		KnowledgeBase: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "usp_knowledge_base_size",
				Help: "Entries loaded into the knowledge base, by kind.",
			},
			[]string{"kind"},
		),
		StageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "usp_stage_duration_seconds",
				Help: "Wall time of each run stage.",
			},
			[]string{"stage"},
		),
	}

	m.registry.MustRegister(
		m.QuestionsTotal,
		m.PartsTotal,
		m.AnswersTotal,
		m.MissingTotal,
		m.PatternCacheHits,
		m.PatternCacheMiss,
		m.KnowledgeBase,
		m.StageDuration,
	)

	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records how long a stage took since start
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// ObserveMatch records the counters of a matching run
func (m *Metrics) ObserveMatch(st match.Stats) {
	m.PartsTotal.WithLabelValues(match.OutcomeIncomplete.String()).Add(float64(st.Incomplete))
	m.PartsTotal.WithLabelValues(match.OutcomeNegated.String()).Add(float64(st.Negated))
	m.PartsTotal.WithLabelValues(match.OutcomeUnmatched.String()).Add(float64(st.Unmatched))
	m.PartsTotal.WithLabelValues(match.OutcomeMatched.String()).Add(float64(st.Matched))
	m.MissingTotal.WithLabelValues("relation").Add(float64(st.MissingRelations))
	m.MissingTotal.WithLabelValues("slot").Add(float64(st.MissingSlots))
	m.AnswersTotal.Add(float64(st.Answers))
}

// WriteFile writes every collector in the text exposition format
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
