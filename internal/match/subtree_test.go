package match

import (
	"testing"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// coordinationKB builds a head node 0 with a conj_and child 2. headCluster
// and childCluster are assigned to them respectively.
func coordinationKB(headCluster, childCluster int) *kb.KnowledgeBase {
	b := kb.NewBuilder()
	b.AddForm("company", "company")
	b.AddLemmaCluster("company", companyCluster)

	head := id(0)
	b.AddPart(head, model.ClusterAssignment{Cluster: headCluster}, nil, 0, "")
	b.AddPart(id(2), model.ClusterAssignment{Cluster: childCluster}, &head, conjSlot, "conj_and")
	return b.Build()
}

func TestIsMatch_CoordinationSymmetry(t *testing.T) {
	// Matches only through the coordinated sibling
	k := coordinationKB(firmCluster, companyCluster)
	m := NewSubtreeMatcher(k, kb.NewDepRules(nil), newCompiler(k))
	if !m.IsMatch(id(0), "the company") {
		t.Error("expected match through conj_and child")
	}

	// Mirrored: the head carries the cluster directly
	k = coordinationKB(companyCluster, firmCluster)
	m = NewSubtreeMatcher(k, kb.NewDepRules(nil), newCompiler(k))
	if !m.IsMatch(id(0), "the company") {
		t.Error("expected direct match on head")
	}
}

func TestIsMatch_NegatedConjunctionIgnored(t *testing.T) {
	b := kb.NewBuilder()
	b.AddForm("company", "company")
	b.AddLemmaCluster("company", companyCluster)
	head := id(0)
	b.AddPart(head, model.ClusterAssignment{Cluster: firmCluster}, nil, 0, "")
	b.AddPart(id(2), model.ClusterAssignment{Cluster: companyCluster}, &head, conjSlot, "conj_negcc")
	k := b.Build()

	m := NewSubtreeMatcher(k, kb.NewDepRules(nil), newCompiler(k))
	if m.IsMatch(id(0), "company") {
		t.Error("expected conj_negcc child not to count as an alternative")
	}
}

func TestIsMatch_ModifiersInSubtree(t *testing.T) {
	b := kb.NewBuilder()
	for _, w := range []string{"oil", "company", "big"} {
		b.AddForm(w, w)
	}
	b.AddLemmaCluster("oil", 1)
	b.AddLemmaCluster("big", 2)
	b.AddLemmaCluster("company", companyCluster)

	// company(3) <-nn- oil(2) ; oil(2) <-amod- big(1) ; company <-rcmod- firm(6)
	head := id(3)
	oil := id(2)
	b.AddPart(head, model.ClusterAssignment{Cluster: companyCluster}, nil, 0, "")
	b.AddPart(oil, model.ClusterAssignment{Cluster: 1}, &head, 1, "nn")
	b.AddPart(id(1), model.ClusterAssignment{Cluster: 2}, &oil, 1, "amod")
	b.AddPart(id(6), model.ClusterAssignment{Cluster: firmCluster}, &head, 2, "rcmod")
	k := b.Build()

	m := NewSubtreeMatcher(k, kb.NewDepRules(nil), newCompiler(k))

	tree := m.TreeClusters(head)
	if !tree[companyCluster] || !tree[1] || !tree[2] {
		t.Errorf("expected structural descendants in tree clusters, got %v", tree)
	}
	if tree[firmCluster] {
		t.Error("expected rcmod child excluded from tree clusters")
	}

	if !m.IsMatch(head, "big oil company") {
		t.Error("expected nested modifiers to match")
	}
	if !m.IsMatch(head, "company") {
		t.Error("expected bare head to match")
	}
	if m.IsMatch(oil, "oil company") {
		t.Error("expected mismatch when the head cluster differs")
	}
	if m.IsMatch(head, "unknown company") {
		t.Error("expected uncompilable phrase not to match")
	}
}

func TestTreeClusters_Cycle(t *testing.T) {
	b := kb.NewBuilder()
	a, c := id(0), id(1)
	b.AddPart(a, model.ClusterAssignment{Cluster: 1}, &c, 1, "nn")
	b.AddPart(c, model.ClusterAssignment{Cluster: 2}, &a, 1, "nn")
	k := b.Build()

	m := NewSubtreeMatcher(k, kb.NewDepRules(nil), newCompiler(k))
	tree := m.TreeClusters(a)
	if len(tree) != 2 {
		t.Errorf("expected both clusters once, got %v", tree)
	}
}
