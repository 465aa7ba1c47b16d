// Package kb holds the knowledge base a question-answering run matches
// against: the lexical index, the clustered parse-tree annotations and the
// parsed sentences. A KnowledgeBase is assembled once with a Builder and is
// read-only afterwards, so it may be shared by concurrent matchers.
package kb

import (
	"sort"

	"github.com/gallupBenRyan/multivac/internal/model"
)

type headDep struct {
	head, dep string
}

type slot struct {
	aci   int
	count int
}

// KnowledgeBase is the immutable result of loading a clustering run
type KnowledgeBase struct {
	// lexical index
	formLemmas    map[string][]string
	lemmaClusters map[string][]int
	headDeps      map[headDep]int
	relations     map[string]int

	// annotation store
	clusters  map[model.TreeNodeID]model.ClusterAssignment
	children  map[model.TreeNodeID]map[int][]model.TreeNodeID
	argOrder  map[model.TreeNodeID][]int
	parentDep map[model.TreeNodeID]string
	parts     map[int][]model.TreeNodeID
	argSlots  map[int]map[string]int

	sentences map[model.SentenceID]*Sentence
}

// LemmasOf returns the lemmas observed for a surface form
func (k *KnowledgeBase) LemmasOf(form string) ([]string, bool) {
	ls, ok := k.formLemmas[form]
	return ls, ok
}

// ClustersOf returns the cluster indices whose relation types contain lemma
func (k *KnowledgeBase) ClustersOf(lemma string) []int {
	return k.lemmaClusters[lemma]
}

// HeadDepCluster returns the cluster of the compound (head, dependent)
func (k *KnowledgeBase) HeadDepCluster(head, dep string) (int, bool) {
	ci, ok := k.headDeps[headDep{head: head, dep: dep}]
	return ci, ok
}

// RelationCluster returns the cluster holding the verb relation
func (k *KnowledgeBase) RelationCluster(verb string) (int, bool) {
	ci, ok := k.relations[verb]
	return ci, ok
}

// ClusterOf returns the cluster assignment of a tree node
func (k *KnowledgeBase) ClusterOf(id model.TreeNodeID) (model.ClusterAssignment, bool) {
	a, ok := k.clusters[id]
	return a, ok
}

// ChildrenOf returns the node's children grouped by argument-cluster index
func (k *KnowledgeBase) ChildrenOf(id model.TreeNodeID) (map[int][]model.TreeNodeID, bool) {
	c, ok := k.children[id]
	return c, ok
}

// ArgClusters returns the argument-cluster indices of the node's children, ascending
func (k *KnowledgeBase) ArgClusters(id model.TreeNodeID) []int {
	return k.argOrder[id]
}

// ParentDependencyOf returns the dependency label from the node to its parent
func (k *KnowledgeBase) ParentDependencyOf(id model.TreeNodeID) (string, bool) {
	d, ok := k.parentDep[id]
	return d, ok
}

// PartsOf returns the tree nodes assigned to a cluster, in id order
func (k *KnowledgeBase) PartsOf(cluster int) []model.TreeNodeID {
	return k.parts[cluster]
}

// ArgSlot returns the argument cluster realising dep for a relation cluster
func (k *KnowledgeBase) ArgSlot(cluster int, dep string) (int, bool) {
	aci, ok := k.argSlots[cluster][dep]
	return aci, ok
}

// Sentence returns a parsed sentence
func (k *KnowledgeBase) Sentence(id model.SentenceID) (*Sentence, bool) {
	s, ok := k.sentences[id]
	return s, ok
}

// Stats summarises the knowledge base for logging
type Stats struct {
	Forms     int
	Lemmas    int
	HeadDeps  int
	Relations int
	Nodes     int
	Clusters  int
	Sentences int
}

// Stats returns the size of each index
func (k *KnowledgeBase) Stats() Stats {
	return Stats{
		Forms:     len(k.formLemmas),
		Lemmas:    len(k.lemmaClusters),
		HeadDeps:  len(k.headDeps),
		Relations: len(k.relations),
		Nodes:     len(k.clusters),
		Clusters:  len(k.parts),
		Sentences: len(k.sentences),
	}
}

// Builder accumulates knowledge base entries. It is not safe for
// concurrent use.
type Builder struct {
	kb       *KnowledgeBase
	argSlots map[int]map[string]slot
	lemmaSet map[string]map[int]bool
	formSet  map[string]map[string]bool
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		kb: &KnowledgeBase{
			formLemmas:    make(map[string][]string),
			lemmaClusters: make(map[string][]int),
			headDeps:      make(map[headDep]int),
			relations:     make(map[string]int),
			clusters:      make(map[model.TreeNodeID]model.ClusterAssignment),
			children:      make(map[model.TreeNodeID]map[int][]model.TreeNodeID),
			argOrder:      make(map[model.TreeNodeID][]int),
			parentDep:     make(map[model.TreeNodeID]string),
			parts:         make(map[int][]model.TreeNodeID),
			argSlots:      make(map[int]map[string]int),
			sentences:     make(map[model.SentenceID]*Sentence),
		},
		argSlots: make(map[int]map[string]slot),
		lemmaSet: make(map[string]map[int]bool),
		formSet:  make(map[string]map[string]bool),
	}
}

// AddForm records that form was lemmatised as lemma
func (b *Builder) AddForm(form, lemma string) {
	seen, ok := b.formSet[form]
	if !ok {
		seen = make(map[string]bool)
		b.formSet[form] = seen
	}
	if seen[lemma] {
		return
	}
	seen[lemma] = true
	b.kb.formLemmas[form] = append(b.kb.formLemmas[form], lemma)
}

// AddLemmaCluster records that a relation type of cluster ci has lemma
func (b *Builder) AddLemmaCluster(lemma string, ci int) {
	seen, ok := b.lemmaSet[lemma]
	if !ok {
		seen = make(map[int]bool)
		b.lemmaSet[lemma] = seen
	}
	if seen[ci] {
		return
	}
	seen[ci] = true
	b.kb.lemmaClusters[lemma] = append(b.kb.lemmaClusters[lemma], ci)
}

// AddHeadDep records the cluster of a head-dependent compound
func (b *Builder) AddHeadDep(head, dep string, ci int) {
	b.kb.headDeps[headDep{head: head, dep: dep}] = ci
}

// AddRelation records the cluster of a verb. The first cluster seen wins.
func (b *Builder) AddRelation(verb string, ci int) bool {
	if _, ok := b.kb.relations[verb]; ok {
		return false
	}
	b.kb.relations[verb] = ci
	return true
}

// AddArgSlot records that dep was observed count times in argument cluster
// aci of cluster ci. Each dep keeps the argument cluster with the highest count.
func (b *Builder) AddArgSlot(ci int, dep string, aci, count int) {
	slots, ok := b.argSlots[ci]
	if !ok {
		slots = make(map[string]slot)
		b.argSlots[ci] = slots
	}
	if cur, ok := slots[dep]; ok && cur.count >= count {
		return
	}
	slots[dep] = slot{aci: aci, count: count}
}

// AddPart records a clustered tree node and, when parent is non-nil, its
// edge to the parent under argument cluster aci with dependency dep.
func (b *Builder) AddPart(id model.TreeNodeID, a model.ClusterAssignment, parent *model.TreeNodeID, aci int, dep string) {
	if _, ok := b.kb.clusters[id]; !ok {
		b.kb.parts[a.Cluster] = append(b.kb.parts[a.Cluster], id)
	}
	b.kb.clusters[id] = a

	if parent == nil {
		return
	}
	b.kb.parentDep[id] = dep
	groups, ok := b.kb.children[*parent]
	if !ok {
		groups = make(map[int][]model.TreeNodeID)
		b.kb.children[*parent] = groups
	}
	groups[aci] = append(groups[aci], id)
}

// AddSentence stores a parsed sentence
func (b *Builder) AddSentence(id model.SentenceID, s *Sentence) {
	b.kb.sentences[id] = s
}

// Build finalises the knowledge base. The builder must not be used afterwards.
func (b *Builder) Build() *KnowledgeBase {
	k := b.kb

	for ci, slots := range b.argSlots {
		m := make(map[string]int, len(slots))
		for dep, s := range slots {
			m[dep] = s.aci
		}
		k.argSlots[ci] = m
	}

	for _, ids := range k.parts {
		sortIDs(ids)
	}
	for id, groups := range k.children {
		acis := make([]int, 0, len(groups))
		for aci, ids := range groups {
			sortIDs(ids)
			acis = append(acis, aci)
		}
		sort.Ints(acis)
		k.argOrder[id] = acis
	}
	for _, cis := range k.lemmaClusters {
		sort.Ints(cis)
	}

	b.kb = nil
	return k
}

func sortIDs(ids []model.TreeNodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
