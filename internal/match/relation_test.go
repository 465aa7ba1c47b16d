package match

import (
	"context"
	"testing"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
)

func newRelationMatcher(k *kb.KnowledgeBase, ex Extractor) *RelationMatcher {
	rules := kb.NewDepRules(nil)
	return NewRelationMatcher(k, NewSubtreeMatcher(k, rules, newCompiler(k)), ex, nil)
}

func group(qs ...model.Question) model.RelationQuestions {
	return model.RelationQuestions{Relation: qs[0].Verb, Questions: qs}
}

func TestMatchRelation_ExtractsComplement(t *testing.T) {
	k := acquireFixture{}.build()
	ex := &stubExtractor{}
	m := newRelationMatcher(k, ex)

	acc := model.NewAnswers()
	st, err := m.MatchRelation(context.Background(), group(subjectQuestion()), acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Parts != 1 || st.Matched != 1 || st.Answers != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
	if len(ex.nodes) != 1 || ex.nodes[0] != id(9) {
		t.Errorf("expected extraction from token 9, got %v", ex.nodes)
	}
}

func TestMatchRelation_Idempotent(t *testing.T) {
	k := acquireFixture{}.build()
	m := newRelationMatcher(k, &stubExtractor{})

	acc := model.NewAnswers()
	g := group(subjectQuestion())
	if _, err := m.MatchRelation(context.Background(), g, acc); err != nil {
		t.Fatal(err)
	}
	before := acc.Total()

	st, err := m.MatchRelation(context.Background(), g, acc)
	if err != nil {
		t.Fatal(err)
	}
	if acc.Total() != before || st.Answers != 0 {
		t.Errorf("expected rerun to add nothing, total %d -> %d, new %d", before, acc.Total(), st.Answers)
	}
}

func TestMatchRelation_NegationExcludesPart(t *testing.T) {
	k := acquireFixture{negated: true}.build()
	ex := &stubExtractor{}
	m := newRelationMatcher(k, ex)

	acc := model.NewAnswers()
	st, err := m.MatchRelation(context.Background(), group(subjectQuestion()), acc)
	if err != nil {
		t.Fatal(err)
	}
	if st.Negated != 1 || st.Matched != 0 {
		t.Errorf("expected part to be negated, got %+v", st)
	}
	if acc.Total() != 0 || len(ex.nodes) != 0 {
		t.Error("expected no answers from a negated part")
	}
}

func TestMatchRelation_ObjectQuestion(t *testing.T) {
	k := acquireFixture{}.build()
	ex := &stubExtractor{}
	m := newRelationMatcher(k, ex)

	// startup has no lemma entry so the object slot never matches
	q := model.Question{Verb: "acquire", Argument: "company", Role: model.RoleObject}
	st, err := m.MatchRelation(context.Background(), group(q), model.NewAnswers())
	if err != nil {
		t.Fatal(err)
	}
	if st.Unmatched != 1 || len(ex.nodes) != 0 {
		t.Errorf("expected the object slot not to match the company, got %+v", st)
	}
}

func TestMatchRelation_MissingMappings(t *testing.T) {
	k := acquireFixture{}.build()
	m := newRelationMatcher(k, &stubExtractor{})

	q := model.Question{Verb: "sell", Argument: "the company", Role: model.RoleSubject}
	st, err := m.MatchRelation(context.Background(), group(q), model.NewAnswers())
	if err != nil {
		t.Fatal(err)
	}
	if st.MissingRelations != 1 || st.Parts != 0 {
		t.Errorf("expected missing relation, got %+v", st)
	}

	b := kb.NewBuilder()
	b.AddRelation("acquire", acquireCluster)
	b.AddArgSlot(acquireCluster, "nsubj", subjectSlot, 1)
	k = b.Build()
	m = newRelationMatcher(k, &stubExtractor{})
	st, err = m.MatchRelation(context.Background(), group(subjectQuestion()), model.NewAnswers())
	if err != nil {
		t.Fatal(err)
	}
	if st.MissingSlots != 1 {
		t.Errorf("expected missing dobj slot, got %+v", st)
	}
}

func TestMatchRelation_Cancelled(t *testing.T) {
	k := acquireFixture{}.build()
	m := newRelationMatcher(k, &stubExtractor{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.MatchRelation(ctx, group(subjectQuestion()), model.NewAnswers()); err == nil {
		t.Error("expected context error")
	}
}

func TestMatchPart_Incomplete(t *testing.T) {
	k := acquireFixture{}.build()
	m := newRelationMatcher(k, &stubExtractor{})
	acc := model.NewAnswers()

	// A leaf has no children at all
	if o, _ := m.MatchPart(subjectQuestion(), id(9), subjectSlot, objectSlot, acc); o != OutcomeIncomplete {
		t.Errorf("expected incomplete for leaf, got %s", o)
	}
	// The part lacks the requested complement slot
	if o, _ := m.MatchPart(subjectQuestion(), id(7), subjectSlot, 42, acc); o != OutcomeIncomplete {
		t.Errorf("expected incomplete for missing slot, got %s", o)
	}
}

func TestStats_Add(t *testing.T) {
	a := Stats{Parts: 2, Matched: 1, Answers: 3}
	a.Add(Stats{Parts: 1, Negated: 1, MissingSlots: 2})
	if a.Parts != 3 || a.Negated != 1 || a.MissingSlots != 2 || a.Answers != 3 {
		t.Errorf("unexpected sum %+v", a)
	}
}
