package match

import (
	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
	"github.com/gallupBenRyan/multivac/internal/pattern"
)

const (
	acquireCluster = 7
	companyCluster = 3
	startupCluster = 4
	notCluster     = 5
	firmCluster    = 10
	subjectSlot    = 1
	objectSlot     = 2
	negSlot        = 3
	conjSlot       = 4
)

func id(tok int) model.TreeNodeID {
	return model.TreeNodeID{Article: "a1", Sentence: 0, Token: tok}
}

// acquireFixture builds "The company that investors liked has finally
// acquired startup": part 7 with the company in its subject slot and
// startup (token 9) in its object slot.
type acquireFixture struct {
	negated bool
}

func (f acquireFixture) build() *kb.KnowledgeBase {
	b := kb.NewBuilder()

	b.AddForm("company", "company")
	b.AddForm("acquire", "acquire")
	b.AddLemmaCluster("company", companyCluster)
	b.AddLemmaCluster("acquire", acquireCluster)
	b.AddRelation("acquire", acquireCluster)
	b.AddArgSlot(acquireCluster, "nsubj", subjectSlot, 10)
	b.AddArgSlot(acquireCluster, "dobj", objectSlot, 8)

	part := id(7)
	b.AddPart(part, model.ClusterAssignment{Cluster: acquireCluster, Label: "acquired"}, nil, 0, "")
	b.AddPart(id(1), model.ClusterAssignment{Cluster: companyCluster, Label: "company"}, &part, subjectSlot, "nsubj")
	b.AddPart(id(9), model.ClusterAssignment{Cluster: startupCluster, Label: "startup"}, &part, objectSlot, "dobj")
	if f.negated {
		b.AddPart(id(6), model.ClusterAssignment{Cluster: notCluster, Label: "not"}, &part, negSlot, "neg")
	}

	forms := []string{"The", "company", "that", "investors", "liked", "has", "finally", "acquired", "the", "startup"}
	if f.negated {
		forms[6] = "not"
	}
	s := kb.NewSentence(forms, forms)
	b.AddSentence(model.SentenceID{Article: "a1", Sentence: 0}, s)

	return b.Build()
}

func subjectQuestion() model.Question {
	return model.Question{Verb: "acquire", Argument: "the company", Role: model.RoleSubject}
}

// stubExtractor records the nodes it was asked to render
type stubExtractor struct {
	nodes []model.TreeNodeID
}

func (e *stubExtractor) Extract(q model.Question, node model.TreeNodeID, acc *model.Answers) int {
	e.nodes = append(e.nodes, node)
	if acc.Add(q, model.Answer{Sentence: node.SentenceID(), Text: node.String()}) {
		return 1
	}
	return 0
}

func newCompiler(k *kb.KnowledgeBase) *pattern.Compiler {
	return pattern.NewCompiler(k, nil, model.CacheConfig{})
}
