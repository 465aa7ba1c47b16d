package match

import (
	"context"
	"log/slog"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// Extractor renders answers from a node of the complementary slot
type Extractor interface {
	Extract(q model.Question, node model.TreeNodeID, acc *model.Answers) int
}

// Outcome classifies how a part was handled for a question
type Outcome int

const (
	OutcomeIncomplete Outcome = iota // part lacks the question's slot or its complement
	OutcomeNegated                   // another slot carries a negation
	OutcomeUnmatched                 // no child of the slot realises the argument
	OutcomeMatched                   // answers were extracted from the complement
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeNegated:
		return "negated"
	case OutcomeUnmatched:
		return "unmatched"
	default:
		return "matched"
	}
}

// Stats counts what happened while matching
type Stats struct {
	MissingRelations int // questions whose verb has no relation cluster
	MissingSlots     int // questions whose role has no argument cluster
	Parts            int
	Incomplete       int
	Negated          int
	Unmatched        int
	Matched          int
	Answers          int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.MissingRelations += other.MissingRelations
	s.MissingSlots += other.MissingSlots
	s.Parts += other.Parts
	s.Incomplete += other.Incomplete
	s.Negated += other.Negated
	s.Unmatched += other.Unmatched
	s.Matched += other.Matched
	s.Answers += other.Answers
}

func (s *Stats) record(o Outcome) {
	s.Parts++
	switch o {
	case OutcomeIncomplete:
		s.Incomplete++
	case OutcomeNegated:
		s.Negated++
	case OutcomeUnmatched:
		s.Unmatched++
	case OutcomeMatched:
		s.Matched++
	}
}

// RelationMatcher scans the parts of a relation cluster for each question
type RelationMatcher struct {
	kb        *kb.KnowledgeBase
	subtree   *SubtreeMatcher
	extractor Extractor
	throttle  *logger.Throttle
	logger    *slog.Logger
}

// NewRelationMatcher creates a relation matcher
func NewRelationMatcher(k *kb.KnowledgeBase, subtree *SubtreeMatcher, extractor Extractor, throttle *logger.Throttle) *RelationMatcher {
	if throttle == nil {
		throttle = logger.NewThrottle(0, 0)
	}
	return &RelationMatcher{
		kb:        k,
		subtree:   subtree,
		extractor: extractor,
		throttle:  throttle,
		logger:    logger.WithComponent("relation-matcher"),
	}
}

// MatchRelation answers every question of group into acc. Missing mappings
// skip the affected question; only context cancellation returns an error.
func (m *RelationMatcher) MatchRelation(ctx context.Context, group model.RelationQuestions, acc *model.Answers) (Stats, error) {
	var stats Stats

	ci, ok := m.kb.RelationCluster(group.Relation)
	if !ok {
		stats.MissingRelations += len(group.Questions)
		m.logger.Info("relation has no cluster", "relation", group.Relation, "questions", len(group.Questions))
		return stats, nil
	}
	parts := m.kb.PartsOf(ci)

	for _, q := range group.Questions {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		aci, ok := m.kb.ArgSlot(ci, q.Role.Dependency())
		aci2, ok2 := m.kb.ArgSlot(ci, q.Role.Complement().Dependency())
		if !ok || !ok2 {
			stats.MissingSlots++
			if m.throttle.Allow("missing-slot") {
				m.logger.Debug("relation lacks argument slot", "relation", group.Relation, "cluster", ci, "role", q.Role.String())
			}
			continue
		}

		for _, pid := range parts {
			outcome, added := m.MatchPart(q, pid, aci, aci2, acc)
			stats.record(outcome)
			stats.Answers += added
			if outcome != OutcomeMatched && outcome != OutcomeUnmatched && m.throttle.Allow(outcome.String()) {
				m.logger.Debug("part skipped", "part", pid.String(), "question", q.String(), "reason", outcome.String())
			}
		}
	}

	return stats, nil
}

// MatchPart tests one part against q, with aci the argument cluster of the
// question's role and aci2 that of its complement, and extracts answers on
// success, returning the outcome and the number of new answers.
func (m *RelationMatcher) MatchPart(q model.Question, pid model.TreeNodeID, aci, aci2 int, acc *model.Answers) (Outcome, int) {
	groups, ok := m.kb.ChildrenOf(pid)
	if !ok {
		return OutcomeIncomplete, 0
	}
	if _, ok := groups[aci]; !ok {
		return OutcomeIncomplete, 0
	}
	if _, ok := groups[aci2]; !ok {
		return OutcomeIncomplete, 0
	}

	for _, x := range m.kb.ArgClusters(pid) {
		if x == aci || x == aci2 {
			continue
		}
		for _, cid := range groups[x] {
			if dep, _ := m.kb.ParentDependencyOf(cid); dep == kb.DepNeg {
				return OutcomeNegated, 0
			}
		}
	}

	matched := false
	for _, cid := range groups[aci] {
		if m.subtree.IsMatch(cid, q.Argument) {
			matched = true
			break
		}
	}
	if !matched {
		return OutcomeUnmatched, 0
	}

	added := 0
	for _, cid := range groups[aci2] {
		added += m.extractor.Extract(q, cid, acc)
	}
	return OutcomeMatched, added
}
