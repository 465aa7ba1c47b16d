package extract

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// DefaultMaxCandidates bounds the token sets enumerated from one answer node
const DefaultMaxCandidates = 256

// candidate is an insertion-ordered set of tree nodes rendered as one answer
type candidate []model.TreeNodeID

func (c candidate) union(other candidate) candidate {
	out := make(candidate, 0, len(c)+len(other))
	seen := make(map[model.TreeNodeID]bool, len(c)+len(other))
	for _, id := range c {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range other {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// AnswerExtractor renders the phrases rooted at a node of the complementary slot
type AnswerExtractor struct {
	kb            *kb.KnowledgeBase
	rules         kb.DepRules
	maxCandidates int
	logger        *slog.Logger
}

// NewAnswerExtractor creates an extractor over k
func NewAnswerExtractor(k *kb.KnowledgeBase, rules kb.DepRules, maxCandidates int) *AnswerExtractor {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &AnswerExtractor{
		kb:            k,
		rules:         rules,
		maxCandidates: maxCandidates,
		logger:        logger.WithComponent("answer-extractor"),
	}
}

// enumeration carries per-call state of the candidate walk
type enumeration struct {
	minID     map[model.TreeNodeID]model.TreeNodeID
	visiting  map[model.TreeNodeID]bool
	truncated bool
}

func (st *enumeration) lowerMin(id, child model.TreeNodeID) {
	m, ok := st.minID[child]
	if ok && m.Less(st.minID[id]) {
		st.minID[id] = m
	}
}

// Extract adds to acc every answer phrase rooted at node for q and returns
// how many were new.
func (e *AnswerExtractor) Extract(q model.Question, node model.TreeNodeID, acc *model.Answers) int {
	sid := node.SentenceID()
	sent, ok := e.kb.Sentence(sid)
	if !ok {
		e.logger.Debug("answer sentence missing", "sentence", sid.String(), "node", node.String())
		return 0
	}

	added := 0
	for _, text := range e.Phrases(node, sent) {
		if acc.Add(q, model.Answer{Sentence: sid, Text: text}) {
			added++
		}
	}
	return added
}

// Phrases enumerates and renders the answer phrases rooted at node
func (e *AnswerExtractor) Phrases(node model.TreeNodeID, sent *kb.Sentence) []string {
	st := &enumeration{
		minID:    make(map[model.TreeNodeID]model.TreeNodeID),
		visiting: make(map[model.TreeNodeID]bool),
	}
	cands := e.enumerate(node, st)
	if st.truncated {
		e.logger.Warn("answer candidates truncated", "node", node.String(), "limit", e.maxCandidates)
	}

	var out []string
	for _, c := range cands {
		if text := e.render(c, st, sent); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// enumerate returns the candidate token sets rooted at id. Structural
// modifiers multiply out by cross product; coordinated children contribute
// their own candidates as separate alternatives, listed first.
func (e *AnswerExtractor) enumerate(id model.TreeNodeID, st *enumeration) []candidate {
	if st.visiting[id] {
		return nil
	}
	st.visiting[id] = true
	defer delete(st.visiting, id)

	st.minID[id] = id
	var alternatives []candidate
	curr := []candidate{{id}}

	groups, _ := e.kb.ChildrenOf(id)
	for _, aci := range e.kb.ArgClusters(id) {
		for _, child := range groups[aci] {
			dep, _ := e.kb.ParentDependencyOf(child)
			switch {
			case e.rules.IsCoordination(dep):
				alternatives = append(alternatives, e.enumerate(child, st)...)
				st.lowerMin(id, child)
			case e.rules.IsStructural(dep):
				sub := e.enumerate(child, st)
				st.lowerMin(id, child)
				if len(sub) > 0 {
					curr = e.cross(curr, sub, st)
				}
			}
		}
	}

	return append(alternatives, curr...)
}

// cross extends every candidate of a with every candidate of b
func (e *AnswerExtractor) cross(a, b []candidate, st *enumeration) []candidate {
	out := make([]candidate, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			if len(out) >= e.maxCandidates {
				st.truncated = true
				return out
			}
			out = append(out, x.union(y))
		}
	}
	return out
}

// render builds the answer text of one candidate: tokens in ascending index
// order, determiners reattached, prepositions hoisted in front of the
// object's leftmost token and multi-word cluster labels substituted.
func (e *AnswerExtractor) render(c candidate, st *enumeration, sent *kb.Sentence) string {
	if len(c) == 0 {
		return ""
	}
	root := c[0]

	members := make(map[model.TreeNodeID]bool, len(c))
	for _, id := range c {
		members[id] = true
	}

	tokens := make(map[int]bool)
	pending := make(map[int]string)
	for _, id := range c {
		if id.SentenceID() != root.SentenceID() {
			continue
		}
		t := id.Token
		tokens[t] = true

		det := -1
		for _, ch := range sent.ChildrenOf(t) {
			if ch.Dep == kb.DepDet {
				det = ch.Index
				tokens[det] = true
				break
			}
		}

		par, ok := sent.ParentOf(t)
		if !ok {
			continue
		}
		prep, ok := e.rules.Preposition(par.Dep)
		if !ok || !members[id.WithToken(par.Index)] {
			continue
		}
		midx := t
		if m, ok := st.minID[id]; ok {
			midx = m.Token
		}
		if det >= 0 && det < midx {
			midx = det
		}
		pending[midx] = prep
	}

	order := make([]int, 0, len(tokens))
	for t := range tokens {
		order = append(order, t)
	}
	sort.Ints(order)

	keys := make([]int, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	words := make([]string, 0, len(order)+len(keys))
	next := 0
	for _, t := range order {
		for next < len(keys) && keys[next] <= t {
			words = append(words, pending[keys[next]])
			next++
		}
		form, ok := sent.TokenForm(t)
		if !ok {
			continue
		}
		if a, ok := e.kb.ClusterOf(root.WithToken(t)); ok && strings.Contains(a.Label, " ") {
			form = a.Label
		}
		words = append(words, form)
	}

	return strings.TrimSpace(strings.Join(words, " "))
}
