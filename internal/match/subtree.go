// Package match finds the clustered relation instances whose argument slot
// realises a question's argument phrase and hands the complementary slot to
// the answer extractor.
package match

import (
	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
	"github.com/gallupBenRyan/multivac/internal/pattern"
)

// PatternSource yields the compiled patterns of an argument phrase
type PatternSource interface {
	Compile(phrase string) ([]pattern.Pattern, error)
}

// SubtreeMatcher decides whether a node's subtree realises an argument phrase
type SubtreeMatcher struct {
	kb       *kb.KnowledgeBase
	rules    kb.DepRules
	patterns PatternSource
}

// NewSubtreeMatcher creates a matcher over k
func NewSubtreeMatcher(k *kb.KnowledgeBase, rules kb.DepRules, patterns PatternSource) *SubtreeMatcher {
	return &SubtreeMatcher{
		kb:       k,
		rules:    rules,
		patterns: patterns,
	}
}

// IsMatch reports whether node, or one of its coordinated or appositive
// children, realises any pattern of phrase.
func (m *SubtreeMatcher) IsMatch(node model.TreeNodeID, phrase string) bool {
	patterns, err := m.patterns.Compile(phrase)
	if err != nil {
		return false
	}

	for _, p := range patterns {
		if m.MatchFromHead(node, p) {
			return true
		}
	}

	groups, _ := m.kb.ChildrenOf(node)
	for _, aci := range m.kb.ArgClusters(node) {
		for _, child := range groups[aci] {
			dep, _ := m.kb.ParentDependencyOf(child)
			if !m.rules.IsCoordination(dep) {
				continue
			}
			for _, p := range patterns {
				if m.MatchFromHead(child, p) {
					return true
				}
			}
		}
	}

	return false
}

// MatchFromHead tests node as the head of p: its own cluster must be in the
// head set and every other element must share a cluster with the subtree.
func (m *SubtreeMatcher) MatchFromHead(node model.TreeNodeID, p pattern.Pattern) bool {
	a, ok := m.kb.ClusterOf(node)
	if !ok || !p.Head().Contains(a.Cluster) {
		return false
	}

	tree := m.TreeClusters(node)
	for _, el := range p.Modifiers() {
		if !el.Intersects(tree) {
			return false
		}
	}
	return true
}

// TreeClusters returns the clusters of node and of every node reachable from
// it through structural dependencies
func (m *SubtreeMatcher) TreeClusters(node model.TreeNodeID) map[int]bool {
	out := make(map[int]bool)
	visited := map[model.TreeNodeID]bool{node: true}
	stack := []model.TreeNodeID{node}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if a, ok := m.kb.ClusterOf(id); ok {
			out[a.Cluster] = true
		}

		groups, _ := m.kb.ChildrenOf(id)
		for _, aci := range m.kb.ArgClusters(id) {
			for _, child := range groups[aci] {
				if visited[child] {
					continue
				}
				dep, _ := m.kb.ParentDependencyOf(child)
				if !m.rules.IsStructural(dep) {
					continue
				}
				visited[child] = true
				stack = append(stack, child)
			}
		}
	}
	return out
}
